// fluxcat runs a flux query against a live InfluxDB 2.x server and streams
// the records to stdout, holding only one record in memory at a time.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/alexflint/go-arg"
	"go.uber.org/zap"

	"influxstream/client"
	"influxstream/lib/flux"
)

type fluxcatArg struct {
	Url       string        `arg:"--url" default:"http://localhost:8086"`
	Org       string        `arg:"--org,required"`
	Token     string        `arg:"--token,required"`
	Query     string        `arg:"--query,required"`
	CountOnly bool          `arg:"--count_only" default:"false"`
	Timeout   time.Duration `arg:"--timeout" default:"5m"`
}

func main() {
	var args fluxcatArg
	arg.MustParse(&args)

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer logger.Sync()

	c, err := client.NewClientWith(args.Url, args.Org, args.Token, http.DefaultClient, logger)
	if err != nil {
		logger.Fatal("invalid server url", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), args.Timeout)
	defer cancel()

	start := time.Now()
	stream, err := c.Query(ctx, args.Query)
	if err != nil {
		logger.Fatal("query failed", zap.Error(err))
	}
	defer stream.Close()

	count := 0
	for {
		rec, err := stream.Next()
		if err != nil {
			logger.Fatal("decode failed", zap.Error(err), zap.Int("records_before_failure", count))
		}
		if rec == nil {
			break
		}
		count++
		if !args.CountOnly {
			printRecord(rec)
		}
	}

	logger.Info("query complete",
		zap.Int("records", count),
		zap.Duration("elapsed", time.Since(start)))
}

func printRecord(rec *flux.Record) {
	m, _ := rec.Measurement()
	f, _ := rec.Field()
	ts, hasTime := rec.Time()
	when := "-"
	if hasTime {
		when = ts.Format(time.RFC3339Nano)
	}
	v := rec.Value()
	val := "null"
	if v != nil {
		val = v.String()
	}
	fmt.Printf("[table %d] %s %s %s = %s\n", rec.Table, when, m, f, val)
}

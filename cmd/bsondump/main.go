// Copyright 2024 CloudWeGo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command bsondump decodes a file of concatenated encoded documents and
// logs diagnostics for each one. It is demonstration tooling: the core
// bsonwire/wire packages never log or touch I/O themselves, so this CLI
// is the only place in the module structured logging belongs.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/bsonwire/bsonwire/bsonwire"
	"github.com/bsonwire/bsonwire/wire"
)

func main() {
	inPath := flag.String("in", "", "path to a file of concatenated encoded documents (default: stdin)")
	maxDocSize := flag.Int("max-doc-size", 0, "reject any document declaring a size larger than this (0 = no limit)")
	demo := flag.Bool("demo", false, "instead of decoding, build and dump a sample insert+query wire exchange")
	verbose := flag.Bool("v", false, "debug-level logging")
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync() //nolint:errcheck

	if *demo {
		runDemo(logger)
		return
	}

	if err := runDump(logger, *inPath, *maxDocSize); err != nil {
		logger.Error("bsondump failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		// zap itself failed to construct; fall back rather than crash a
		// CLI whose entire job is to report diagnostics.
		logger = zap.NewNop()
	}
	return logger
}

func runDump(logger *zap.Logger, inPath string, maxDocSize int) error {
	in := os.Stdin
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	logger.Info("decoding", zap.Int("input_bytes", len(data)))

	opts := bsonwire.DecodeOptions{MaxDocSize: maxDocSize}
	offset := 0
	count := 0
	for offset < len(data) {
		doc, rest, err := bsonwire.DecodeOne(data[offset:], opts)
		if err != nil {
			logger.Error("decode failed",
				zap.Int("offset", offset),
				zap.Int("document_index", count),
				zap.Error(err),
			)
			return err
		}
		consumed := len(data) - offset - len(rest)
		logger.Info("decoded document",
			zap.Int("index", count),
			zap.Int("offset", offset),
			zap.Int("bytes", consumed),
			zap.Int("field_count", doc.Len()),
			zap.Strings("keys", doc.Keys()),
		)
		count++
		offset += consumed
	}

	logger.Info("done", zap.Int("document_count", count))
	return nil
}

func runDemo(logger *zap.Logger) {
	framer := wire.NewFramer(nil)

	docs := []*bsonwire.Document{
		bsonwire.D("_id", bsonwire.Int32Value(1), "name", bsonwire.StringValue("alice")),
		bsonwire.D("_id", bsonwire.Int32Value(2), "name", bsonwire.StringValue("bob")),
	}
	insertID, insertBuf, maxDocSize, err := framer.Insert("demo.users", docs, true, true, nil)
	if err != nil {
		logger.Error("demo insert failed", zap.Error(err))
		return
	}
	logger.Info("built insert packet",
		zap.Int32("request_id", insertID),
		zap.Int("bytes", len(insertBuf)),
		zap.Int("max_doc_size", maxDocSize),
	)

	query := bsonwire.D("name", bsonwire.StringValue("alice"))
	queryID, queryBuf, _, err := framer.Query(0, "demo.users", 0, 1, query, nil)
	if err != nil {
		logger.Error("demo query failed", zap.Error(err))
		return
	}
	logger.Info("built query packet",
		zap.Int32("request_id", queryID),
		zap.Int("bytes", len(queryBuf)),
	)
}

// Package logger builds configured slog loggers and provides attribute
// helpers for the framework's logging vocabulary.
//
// # Usage
//
// Create a logger once during cold start and hand it to the components that
// log:
//
//	log := logger.New(
//		logger.WithProduction("regulatory-api"),
//		logger.WithLambdaContext(),
//	)
//
//	a := api.New(api.WithLogger(log))
//
// WithDevelopment, WithStaging, and WithProduction are opinionated presets;
// WithLevel, WithJSONFormatter, WithOutput, and WithAttr compose for anything
// custom:
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithOutput(os.Stderr),
//		logger.WithAttr(slog.String("service", "indexer")),
//	)
//
// # Context extraction
//
// Extractors pull attributes out of the context passed to the Context logging
// methods (InfoContext and friends). WithLambdaContext installs an extractor
// for the AWS request ID, so every record logged during an invocation can be
// correlated with the CloudWatch request log:
//
//	log.InfoContext(ctx, "document indexed", logger.DocumentID(id))
//	// {"msg":"document indexed","document_id":"...","aws_request_id":"..."}
//
// # Attribute helpers
//
// Helpers return a zero slog.Attr for nil or empty input, so call sites never
// need nil checks:
//
//	log.Error("search failed", logger.Error(err), logger.Index("regulatory_*"))
package logger

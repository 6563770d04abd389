package lsp

// jsonrpc2.Request carries unexported fields, which makes constructing
// one directly in a unit test impractical. The handler bodies are
// exercised indirectly: services_test.go and docstore_test.go cover the
// behavior each handler delegates to, and this package's own tests
// cover the handlers' pure conversion helpers (convertCompletionKind,
// convertSymbolKind, linePrefixAt, fullDocumentRange).

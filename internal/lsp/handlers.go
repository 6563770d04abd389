package lsp

import (
	"context"
	"encoding/json"
	"strings"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/toon-lang/toon-lsp/internal/toon/format"
	"github.com/toon-lang/toon-lsp/internal/toon/semtok"
	"github.com/toon-lang/toon-lsp/internal/toon/services"
)

func (s *Server) handleTextDocumentCompletion(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.CompletionParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse completion params")
	}

	doc, ok := s.store.Get(string(params.TextDocument.URI))
	if !ok {
		return reply(ctx, protocol.CompletionList{}, nil)
	}
	snap := doc.Snapshot()
	astPos := lspPosToAST(snap.Text, params.Position)
	linePrefix := linePrefixAt(snap.Text, int(params.Position.Line), int(params.Position.Character))

	completions := services.Completion(snap.AST, astPos, linePrefix)
	items := make([]protocol.CompletionItem, 0, len(completions))
	for _, c := range completions {
		items = append(items, protocol.CompletionItem{
			Label:  c.Label,
			Kind:   convertCompletionKind(c.Kind),
			Detail: c.Detail,
		})
	}

	return reply(ctx, protocol.CompletionList{IsIncomplete: false, Items: items}, nil)
}

func (s *Server) handleTextDocumentHover(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.HoverParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse hover params")
	}

	doc, ok := s.store.Get(string(params.TextDocument.URI))
	if !ok {
		return reply(ctx, nil, nil)
	}
	snap := doc.Snapshot()
	astPos := lspPosToAST(snap.Text, params.Position)

	hover, ok := services.Hover(snap.AST, astPos)
	if !ok {
		return reply(ctx, nil, nil)
	}

	result := protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.PlainText, Value: hover.Summary},
		Range:    rangePtr(spanToRange(hover.Span)),
	}
	return reply(ctx, result, nil)
}

func (s *Server) handleTextDocumentDefinition(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DefinitionParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse definition params")
	}

	doc, ok := s.store.Get(string(params.TextDocument.URI))
	if !ok {
		return reply(ctx, nil, nil)
	}
	snap := doc.Snapshot()
	astPos := lspPosToAST(snap.Text, params.Position)

	spans := services.Definition(snap.AST, astPos)
	if len(spans) == 0 {
		return reply(ctx, nil, nil)
	}

	locations := make([]protocol.Location, 0, len(spans))
	for _, sp := range spans {
		locations = append(locations, protocol.Location{URI: params.TextDocument.URI, Range: spanToRange(sp)})
	}
	return reply(ctx, locations, nil)
}

func (s *Server) handleTextDocumentReferences(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.ReferenceParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse references params")
	}

	doc, ok := s.store.Get(string(params.TextDocument.URI))
	if !ok {
		return reply(ctx, []protocol.Location{}, nil)
	}
	snap := doc.Snapshot()
	astPos := lspPosToAST(snap.Text, params.Position)

	spans := services.References(snap.AST, astPos, params.Context.IncludeDeclaration)
	locations := make([]protocol.Location, 0, len(spans))
	for _, sp := range spans {
		locations = append(locations, protocol.Location{URI: params.TextDocument.URI, Range: spanToRange(sp)})
	}
	return reply(ctx, locations, nil)
}

func (s *Server) handleTextDocumentDocumentSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentSymbolParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse document symbol params")
	}

	doc, ok := s.store.Get(string(params.TextDocument.URI))
	if !ok {
		return reply(ctx, []protocol.DocumentSymbol{}, nil)
	}
	snap := doc.Snapshot()

	symbols := services.DocumentSymbols(snap.AST)
	lspSymbols := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		lspSymbols = append(lspSymbols, convertDocumentSymbol(sym))
	}
	return reply(ctx, lspSymbols, nil)
}

func convertDocumentSymbol(sym services.Symbol) protocol.DocumentSymbol {
	children := make([]protocol.DocumentSymbol, 0, len(sym.Children))
	for _, c := range sym.Children {
		children = append(children, convertDocumentSymbol(c))
	}
	name := sym.Name
	if name == "" {
		name = "(root)"
	}
	rng := spanToRange(sym.Span)
	return protocol.DocumentSymbol{
		Name:           name,
		Kind:           convertSymbolKind(sym.Kind),
		Range:          rng,
		SelectionRange: rng,
		Children:       children,
	}
}

func (s *Server) handleWorkspaceSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.WorkspaceSymbolParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse workspace symbol params")
	}

	results := services.WorkspaceSymbols(s.store, params.Query)
	symbols := make([]protocol.SymbolInformation, 0, len(results))
	for _, r := range results {
		symbols = append(symbols, protocol.SymbolInformation{
			Name:     r.Name,
			Kind:     convertSymbolKind(r.Kind),
			Location: protocol.Location{URI: protocol.DocumentURI(r.URI), Range: spanToRange(r.Span)},
		})
	}
	return reply(ctx, symbols, nil)
}

func (s *Server) handleTextDocumentPrepareRename(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.PrepareRenameParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse prepareRename params")
	}

	doc, ok := s.store.Get(string(params.TextDocument.URI))
	if !ok {
		return reply(ctx, nil, nil)
	}
	snap := doc.Snapshot()
	astPos := lspPosToAST(snap.Text, params.Position)

	span, _, ok := services.PrepareRename(snap.AST, astPos)
	if !ok {
		return reply(ctx, nil, nil)
	}
	// The simplest valid prepareRename response is the renameable range
	// alone; the client derives the placeholder text from it.
	return reply(ctx, spanToRange(span), nil)
}

func (s *Server) handleTextDocumentRename(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.RenameParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse rename params")
	}

	doc, ok := s.store.Get(string(params.TextDocument.URI))
	if !ok {
		return reply(ctx, nil, nil)
	}
	snap := doc.Snapshot()
	astPos := lspPosToAST(snap.Text, params.Position)

	edits, ok := services.Rename(snap.AST, astPos, params.NewName)
	if !ok {
		return reply(ctx, nil, nil)
	}

	textEdits := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		textEdits = append(textEdits, protocol.TextEdit{Range: spanToRange(e.Span), NewText: e.NewText})
	}

	result := protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentURI][]protocol.TextEdit{
			params.TextDocument.URI: textEdits,
		},
	}
	return reply(ctx, result, nil)
}

func (s *Server) handleTextDocumentFormatting(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentFormattingParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse formatting params")
	}

	doc, ok := s.store.Get(string(params.TextDocument.URI))
	if !ok {
		return reply(ctx, []protocol.TextEdit{}, nil)
	}
	snap := doc.Snapshot()
	if len(snap.Errors) > 0 {
		return reply(ctx, []protocol.TextEdit{}, nil)
	}

	cfg := format.DefaultConfig()
	if params.Options.TabSize > 0 {
		cfg.Width = int(params.Options.TabSize)
	}
	cfg.UseTabs = !params.Options.InsertSpaces

	formatted := format.New(cfg).FormatDocument(snap.AST)
	if formatted == snap.Text {
		return reply(ctx, []protocol.TextEdit{}, nil)
	}

	edit := protocol.TextEdit{Range: fullDocumentRange(snap.Text), NewText: formatted}
	return reply(ctx, []protocol.TextEdit{edit}, nil)
}

func (s *Server) handleTextDocumentRangeFormatting(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentRangeFormattingParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse range formatting params")
	}

	// TOON's indentation rules aren't locally re-derivable from an
	// arbitrary sub-range, so range formatting reformats the whole
	// document and replaces the requested range with it.
	doc, ok := s.store.Get(string(params.TextDocument.URI))
	if !ok {
		return reply(ctx, []protocol.TextEdit{}, nil)
	}
	snap := doc.Snapshot()
	if len(snap.Errors) > 0 {
		return reply(ctx, []protocol.TextEdit{}, nil)
	}

	cfg := format.DefaultConfig()
	if params.Options.TabSize > 0 {
		cfg.Width = int(params.Options.TabSize)
	}
	cfg.UseTabs = !params.Options.InsertSpaces

	formatted := format.New(cfg).FormatDocument(snap.AST)
	if formatted == snap.Text {
		return reply(ctx, []protocol.TextEdit{}, nil)
	}
	edit := protocol.TextEdit{Range: params.Range, NewText: formatted}
	return reply(ctx, []protocol.TextEdit{edit}, nil)
}

func (s *Server) handleTextDocumentSemanticTokensFull(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.SemanticTokensParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse semantic tokens params")
	}

	doc, ok := s.store.Get(string(params.TextDocument.URI))
	if !ok {
		return reply(ctx, protocol.SemanticTokens{Data: []uint32{}}, nil)
	}
	snap := doc.Snapshot()

	tokens := semtok.Collect(snap.AST)
	return reply(ctx, protocol.SemanticTokens{Data: semtok.Encode(tokens)}, nil)
}

// linePrefixAt returns the text of line up to (not including) character,
// for Completion's context-sensitive dispatch.
func linePrefixAt(text string, line, character int) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	lineText := strings.TrimSuffix(lines[line], "\r")
	runes := []rune(lineText)
	if character > len(runes) {
		character = len(runes)
	}
	if character < 0 {
		character = 0
	}
	return string(runes[:character])
}

func fullDocumentRange(text string) protocol.Range {
	lines := strings.Split(text, "\n")
	lastLine := len(lines) - 1
	lastCol := len([]rune(lines[lastLine]))
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: uint32(lastLine), Character: uint32(lastCol)},
	}
}

func rangePtr(r protocol.Range) *protocol.Range { return &r }

func convertCompletionKind(kind string) protocol.CompletionItemKind {
	switch kind {
	case "Keyword":
		return protocol.CompletionItemKindKeyword
	case "Property":
		return protocol.CompletionItemKindProperty
	default:
		return protocol.CompletionItemKindText
	}
}

func convertSymbolKind(kind string) protocol.SymbolKind {
	switch kind {
	case "Object":
		return protocol.SymbolKindObject
	case "Array":
		return protocol.SymbolKindArray
	case "String":
		return protocol.SymbolKindString
	case "Number":
		return protocol.SymbolKindNumber
	case "Boolean":
		return protocol.SymbolKindBoolean
	case "Null":
		return protocol.SymbolKindNull
	case "Property":
		return protocol.SymbolKindProperty
	default:
		return protocol.SymbolKindObject
	}
}

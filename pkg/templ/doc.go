// Package templ fills Microsoft Word documents (DOCX) from Go data.
//
// A template is an ordinary DOCX file with placeholders typed into its text,
// into the alternative text of pictures, or into the targets of hyperlinks.
// Building the template against a model replaces every placeholder and
// repeats, removes or inserts content as the placeholders ask.
//
// # Quick Start
//
//	doc, err := templ.LoadFile("invoice.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	model := map[string]any{
//	    "customer": customer,
//	    "lines":    lines,
//	}
//
//	if _, err := templ.Build(doc, model); err != nil {
//	    log.Fatal(err)
//	}
//	doc.SaveAs("out.docx")
//
// An Engine adds a template cache and per-engine configuration:
//
//	engine := templ.NewWithOptions(templ.WithCache(50))
//	defer engine.Close()
//	doc, err := engine.BuildFile("invoice.docx", model)
//
// # Placeholder Syntax
//
// A placeholder is a prefix and colon-separated fields in braces:
//
//	{txt:customer.Name}          - Text of a model value
//	{rm:draft}                   - Delete the paragraph when draft is true
//	{li:lines}                   - Repeat the paragraph once per element
//	{row:lines}                  - Repeat the table row once per element
//	{cel:photos}                 - Lay the elements out over the cells of a row
//	{sec:hideTerms}              - Delete the section when hideTerms is true
//	{tab:hideTable}              - Delete the table when hideTable is true
//	{pic:logo}                   - Insert a Graphic (text or picture alt text)
//	{pic:logo:120}               - Insert a Graphic 120 pixels wide
//	{url:homepage}               - Replace a hyperlink (in the link target)
//	{toc:Contents}               - Insert a table of contents
//	{!:any note}                 - Comment, removed from the output
//
// Inside a repeated element, {$:prefix:path} addresses the current element:
//
//	{li:lines} {$:txt:Description} costs {$:txt:Price}
//
// expands to one paragraph per line with the text placeholders bound to
// lines[0], lines[1] and so on. {$:txt:} refers to the element itself, and
// each additional "$:" defers the placeholder to the next nesting level.
//
// # Model Paths
//
// Paths are resolved by package model: dot-separated member names, each
// optionally followed by collection keys such as orders[2] or
// prices["EUR"]. Models can be structs, maps, slices, values implementing the
// model accessor interfaces, or cty values decoded from HCL or JSON.
//
// # Modules
//
// A build runs a pipeline of modules in a fixed order (see DefaultModules).
// Each module finds the placeholders of its prefixes, checks their fields,
// handles them, and removes those that expired. Callers can hook into a module
// with SetCustomHandler, or assemble their own pipeline with NewModule and
// WithModules.
//
// # Configuration
//
// Configuration is read from the environment when the package loads:
//
//	TEMPL_CACHE_MAX_SIZE  - Maximum number of cached templates (default 100)
//	TEMPL_CACHE_TTL       - Cache time-to-live, e.g. "10m" (default none)
//	TEMPL_LOG_LEVEL       - debug, info, warn, error or off (default info)
//	TEMPL_MAX_DEPTH       - Maximum nesting of collections (default 32)
//	TEMPL_MAX_MATCHES     - Matches taken per paragraph (default 999)
//	TEMPL_LOCALE          - BCP 47 tag used to format numbers
//	TEMPL_DEBUG           - Capture a snapshot after every module
//
// # Errors
//
// Builds fail on the first error. Grammar errors (IsGrammarError) report
// malformed placeholders, model errors (IsModelError) report paths that
// cannot be resolved or values of the wrong type, and document errors
// (IsDocumentError) report packages that cannot be read or written.
package templ

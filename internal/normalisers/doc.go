// Package normalisers converts sample posts saved as HTML, Markdown or DOCX
// into the plain text the analysis stages expect.
//
// Normalisers are selected by file extension through a Registry.
package normalisers

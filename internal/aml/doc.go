// Package aml provides a small generic XML document model for load templates
// and loader configuration files.
//
// Templates are AML-style documents whose element names, attribute order, and
// @N positional placeholders must survive a parse/modify/write round trip
// byte-for-byte deterministically, so the delete-template cache can be
// regenerated idempotently. encoding/xml struct decoding cannot express
// "first <Item> anywhere, arbitrary attributes, arbitrary children", hence
// this token-level model.
package aml

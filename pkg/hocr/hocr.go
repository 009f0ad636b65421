// Package hocr reads and writes hOCR, the HTML-based format for OCR results.
//
// On the input side, ParseHOCR turns an hOCR file (as produced by Tesseract
// with `tesseract page.png out hocr`, or by other engines) into an object model,
// and Page.Recognition flattens a page into the line and word records consumed
// by layout.Reconstruct. ExtractText does both for every page of a document.
//
// On the output side, NewDocument and AddPage build an hOCR document from
// reconstructed pages, one ocr_line per reconstructed line, and
// GenerateHOCRDocument renders it with an embedded template.
//
// The object model follows the hOCR hierarchy:
// Document → Pages → Areas → Paragraphs → Lines → Words.
package hocr

// Package exporter writes comparison results to CSV.
//
// Files are written with a UTF-8 BOM so Excel opens the Chinese column
// headers correctly. DiffExporter is the high-level entry point used by
// the HTTP handlers and the CLI; WriteDiff is the io.Writer form used
// when streaming a download response.
package exporter

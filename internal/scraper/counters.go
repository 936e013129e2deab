package scraper

// Counters tracks the run's progress figures. The pipeline is strictly
// sequential, so plain ints are sufficient.
type Counters struct {
	PagesRequested  int64
	PagesFetched    int64
	PagesFailed     int64
	RecordsParsed   int64
	RecordsDropped  int64
	RecordsExported int64
	BytesDownloaded int64
}

// Snapshot returns all counters as a map for logging and the final summary.
func (c *Counters) Snapshot() map[string]int64 {
	return map[string]int64{
		"pages_requested":  c.PagesRequested,
		"pages_fetched":    c.PagesFetched,
		"pages_failed":     c.PagesFailed,
		"records_parsed":   c.RecordsParsed,
		"records_dropped":  c.RecordsDropped,
		"records_exported": c.RecordsExported,
		"bytes_downloaded": c.BytesDownloaded,
	}
}

package printing

import (
	"context"
	"path/filepath"
	"regexp"
	"sync"

	"invoicer/pkg/models"
)

// DefaultWorkers is the pool size used when a batch asks for zero workers
const DefaultWorkers = 4

// BatchResult is the outcome of rendering one saved invoice
type BatchResult struct {
	RecordID string
	Path     string
	Err      error
	Index    int // Position in the input slice
}

// Progress is called once per finished record, serialized across workers
type Progress func(done, total int, result BatchResult)

type batchJob struct {
	record models.SavedInvoiceRecord
	index  int
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName returns the PDF file name for a saved record: the invoice number when
// present, followed by the first eight characters of the record id
func FileName(record models.SavedInvoiceRecord) string {
	id := record.ID
	if len(id) > 8 {
		id = id[:8]
	}
	name := unsafeFileChars.ReplaceAllString(record.Document.Details.InvoiceNumber, "-")
	if name == "" || name == "-" {
		return "invoice_" + id + ".pdf"
	}
	return name + "_" + id + ".pdf"
}

// RenderBatch renders every record into dir with a pool of workers. Results keep
// the input order. A canceled ctx stops workers from picking up new records; the
// records left over report ctx.Err().
func (r *Renderer) RenderBatch(ctx context.Context, records []models.SavedInvoiceRecord, dir string, mode models.TaxMode, workers int, progress Progress) []BatchResult {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	jobs := make(chan batchJob, len(records))
	results := make([]BatchResult, len(records))

	var processed int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for job := range jobs {
				result := BatchResult{
					RecordID: job.record.ID,
					Path:     filepath.Join(dir, FileName(job.record)),
					Index:    job.index,
				}

				if err := ctx.Err(); err != nil {
					result.Err = err
				} else {
					r.log.Debug().
						Int("worker", workerID).
						Str("id", job.record.ID).
						Msg("Worker rendering invoice")
					result.Err = r.RenderFile(result.Path, job.record.Document, mode)
				}

				results[job.index] = result

				mu.Lock()
				processed++
				if progress != nil {
					progress(processed, len(records), result)
				}
				mu.Unlock()
			}
		}(w)
	}

	for i, record := range records {
		jobs <- batchJob{record: record, index: i}
	}
	close(jobs)

	wg.Wait()

	return results
}

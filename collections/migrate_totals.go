package collections

import (
	"fmt"
	"log"
	"math"

	"github.com/pocketbase/pocketbase"

	"quotebuilder/model"
)

// MigrateQuoteTotals re-derives the stored totals of every quote whose
// total_amount disagrees with the sum of its cost parts. Safe to call on
// every startup -- quotes that already reconcile are not touched.
func MigrateQuoteTotals(app *pocketbase.PocketBase) error {
	quotesCol, err := app.FindCollectionByNameOrId(QuotesCollection)
	if err != nil {
		return fmt.Errorf("migrate: could not find quotes collection: %w", err)
	}

	records, err := app.FindAllRecords(quotesCol)
	if err != nil {
		return fmt.Errorf("migrate: could not query quotes: %w", err)
	}

	fixed := 0
	for _, record := range records {
		q, err := QuoteFromRecord(record)
		if err != nil {
			log.Printf("migrate: skipping unreadable quote %s: %v\n", record.Id, err)
			continue
		}

		stored := q.TotalAmount
		q.Recompute()
		if math.Abs(stored-q.TotalAmount) <= model.PriceTolerance {
			continue
		}

		if err := ApplyQuote(record, q); err != nil {
			log.Printf("migrate: failed to encode quote %s: %v\n", record.Id, err)
			continue
		}
		if err := app.Save(record); err != nil {
			log.Printf("migrate: failed to save quote %q (%s): %v\n", q.Title, record.Id, err)
			continue
		}
		log.Printf("migrate: quote %q total %.2f -> %.2f\n", q.Title, stored, q.TotalAmount)
		fixed++
	}

	if fixed > 0 {
		log.Printf("migrate: re-derived totals of %d quote(s)\n", fixed)
	}
	return nil
}

package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"
	"invoicer/pkg/services"
)

// ReadRange reads a range of values from the spreadsheet
func (s *Service) ReadRange(ctx context.Context, readRange string) ([][]interface{}, error) {
	const op = "ReadRange"

	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.Values, nil
}

// ExportedIDs returns the record ids already present in column A of sheetName.
// A missing sheet yields an empty set.
func (s *Service) ExportedIDs(ctx context.Context, sheetName string) (map[string]struct{}, error) {
	const op = "ExportedIDs"

	exists, err := s.sheetExists(ctx, sheetName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return map[string]struct{}{}, nil
	}

	values, err := s.ReadRange(ctx, sheetName+"!A:A")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read %s: %w", op, sheetName, err)
	}

	ids := IDsFromValues(values)
	s.log.Debug().
		Str("sheet", sheetName).
		Int("ids", len(ids)).
		Msg("Read exported record ids")
	return ids, nil
}

// IDsFromValues collects the first cell of every row below the header
func IDsFromValues(values [][]interface{}) map[string]struct{} {
	ids := make(map[string]struct{}, len(values))
	for i, row := range values {
		if i == 0 || len(row) == 0 {
			continue
		}
		id := strings.TrimSpace(fmt.Sprint(row[0]))
		if id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// FilterNew drops rows whose id is in exported, keeping order
func FilterNew(rows []services.HistoryRow, exported map[string]struct{}) []services.HistoryRow {
	fresh := make([]services.HistoryRow, 0, len(rows))
	for _, row := range rows {
		if _, ok := exported[row.ID]; !ok {
			fresh = append(fresh, row)
		}
	}
	return fresh
}

func (s *Service) sheetExists(ctx context.Context, sheetName string) (bool, error) {
	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return false, err
	}
	return findSheet(spreadsheet, sheetName) != nil, nil
}

func findSheet(spreadsheet *sheets.Spreadsheet, sheetName string) *sheets.Sheet {
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			return sheet
		}
	}
	return nil
}

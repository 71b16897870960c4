package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitproof/splitproof/internal/models"
	"github.com/splitproof/splitproof/internal/money"
	"github.com/splitproof/splitproof/internal/storage"
)

// CreateRun persists a completed settlement run inside one transaction.
func (s *SQLiteStore) CreateRun(ctx context.Context, run *models.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().Unix()
	}

	receiptJSON, err := json.Marshal(run.Receipt)
	if err != nil {
		return fmt.Errorf("failed to encode receipt: %w", err)
	}
	allocationJSON, err := json.Marshal(run.Allocation)
	if err != nil {
		return fmt.Errorf("failed to encode allocation: %w", err)
	}
	settlementJSON, err := json.Marshal(run.Settlement)
	if err != nil {
		return fmt.Errorf("failed to encode settlement: %w", err)
	}
	traceJSON, err := json.Marshal(run.Trace)
	if err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}
	verdictJSON, err := json.Marshal(run.Verdict)
	if err != nil {
		return fmt.Errorf("failed to encode verdict: %w", err)
	}
	var warningsJSON any
	if len(run.Warnings) > 0 {
		encoded, err := json.Marshal(run.Warnings)
		if err != nil {
			return fmt.Errorf("failed to encode warnings: %w", err)
		}
		warningsJSON = string(encoded)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, owner_id, currency, grand_total, participant_count, valid,
		                   receipt_json, allocation_json, settlement_json, trace_json, verdict_json, warnings_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.OwnerID,
		run.Receipt.Currency(), run.Receipt.GrandTotal.Amount(),
		len(run.Allocation.Participants), boolToInt(run.Verdict.Valid),
		string(receiptJSON), string(allocationJSON), string(settlementJSON),
		string(traceJSON), string(verdictJSON), warningsJSON,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, entry := range run.Settlement.Entries {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO run_entries (run_id, participant_id, owed) VALUES (?, ?, ?)",
			run.ID, entry.ParticipantID, entry.Owed.Amount(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert run entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRun retrieves a stored run by ID, decoding the persisted documents.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*models.Run, error) {
	run := &models.Run{ID: runID}
	var receiptJSON, allocationJSON, settlementJSON, traceJSON, verdictJSON string
	var warningsJSON sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id, receipt_json, allocation_json, settlement_json, trace_json, verdict_json, warnings_json, created_at
		 FROM runs WHERE id = ?`,
		runID,
	).Scan(&run.OwnerID, &receiptJSON, &allocationJSON, &settlementJSON, &traceJSON, &verdictJSON, &warningsJSON, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: %w", runID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if err := json.Unmarshal([]byte(receiptJSON), &run.Receipt); err != nil {
		return nil, fmt.Errorf("failed to decode receipt: %w", err)
	}
	if err := json.Unmarshal([]byte(allocationJSON), &run.Allocation); err != nil {
		return nil, fmt.Errorf("failed to decode allocation: %w", err)
	}
	if err := json.Unmarshal([]byte(settlementJSON), &run.Settlement); err != nil {
		return nil, fmt.Errorf("failed to decode settlement: %w", err)
	}
	if err := json.Unmarshal([]byte(traceJSON), &run.Trace); err != nil {
		return nil, fmt.Errorf("failed to decode trace: %w", err)
	}
	if err := json.Unmarshal([]byte(verdictJSON), &run.Verdict); err != nil {
		return nil, fmt.Errorf("failed to decode verdict: %w", err)
	}
	if warningsJSON.Valid {
		if err := json.Unmarshal([]byte(warningsJSON.String), &run.Warnings); err != nil {
			return nil, fmt.Errorf("failed to decode warnings: %w", err)
		}
	}
	return run, nil
}

// ListRunsByOwner returns run summaries for an owner, newest first.
func (s *SQLiteStore) ListRunsByOwner(ctx context.Context, ownerID string) ([]models.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, currency, grand_total, participant_count, valid, created_at
		 FROM runs WHERE owner_id = ? ORDER BY created_at DESC, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var summaries []models.RunSummary
	for rows.Next() {
		var (
			summary    models.RunSummary
			currency   string
			grandTotal int64
			valid      int
		)
		if err := rows.Scan(&summary.ID, &currency, &grandTotal, &summary.ParticipantCount, &valid, &summary.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}
		summary.GrandTotal = money.New(grandTotal, currency)
		summary.Valid = valid != 0
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return summaries, nil
}

// DeleteRun removes a run; entries cascade.
func (s *SQLiteStore) DeleteRun(ctx context.Context, runID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s: %w", runID, storage.ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"veriscan/internal/domain"
	"veriscan/internal/ports"
)

// DomainRepository

func (db *DB) GetOrCreate(ctx context.Context, registrable string) (string, error) {
	registrable = strings.ToLower(registrable)
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO domains (registrable_domain)
		VALUES ($1)
		ON CONFLICT (registrable_domain) DO UPDATE SET registrable_domain = EXCLUDED.registrable_domain
		RETURNING id
	`, registrable).Scan(&id)
	return id, err
}

// ScanRepository

func (db *DB) Create(ctx context.Context, domainID string, url string) (string, error) {
	var scanID string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO scans (domain_id, url, status, progress)
		VALUES ($1, $2, 'queued', 0)
		RETURNING id
	`, domainID, url).Scan(&scanID)
	if err != nil {
		return "", err
	}
	// create job row
	_, err = db.Pool.Exec(ctx, `INSERT INTO scan_jobs (scan_id) VALUES ($1)`, scanID)
	return scanID, err
}

func (db *DB) Get(ctx context.Context, scanID string) (domain.Scan, error) {
	var sc domain.Scan
	err := db.Pool.QueryRow(ctx, `
		SELECT id, domain_id, url, status, started_at, finished_at
		FROM scans WHERE id = $1
	`, scanID).Scan(&sc.ID, &sc.DomainRef, &sc.URL, &sc.Status, &sc.StartedAt, &sc.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Scan{}, ports.ErrNotFound
	}
	return sc, err
}

func (db *DB) Status(ctx context.Context, scanID string) (string, float64, error) {
	var status string
	var progress float64
	err := db.Pool.QueryRow(ctx, `SELECT status, progress FROM scans WHERE id = $1`, scanID).Scan(&status, &progress)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, ports.ErrNotFound
	}
	return status, progress, err
}

// ResultRepository

func (db *DB) Save(ctx context.Context, scanID string, res domain.ScanResult) error {
	issues, err := json.Marshal(res.Issues)
	if err != nil {
		return fmt.Errorf("marshal issues: %w", err)
	}
	evidence, err := json.Marshal(res.Evidence)
	if err != nil {
		return fmt.Errorf("marshal evidence: %w", err)
	}
	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO scan_results (
			scan_id, domain_id, success, risk_score,
			accessibility_issues, ai_retention_issues, privacy_issues, shadow_ai_issues,
			cure_notice_eligible, issues, evidence
		)
		SELECT s.id, s.domain_id, $2, $3, $4, $5, $6, $7, $8, $9, $10
		FROM scans s WHERE s.id = $1
		ON CONFLICT (scan_id) DO UPDATE SET
			success = EXCLUDED.success,
			risk_score = EXCLUDED.risk_score,
			accessibility_issues = EXCLUDED.accessibility_issues,
			ai_retention_issues = EXCLUDED.ai_retention_issues,
			privacy_issues = EXCLUDED.privacy_issues,
			shadow_ai_issues = EXCLUDED.shadow_ai_issues,
			cure_notice_eligible = EXCLUDED.cure_notice_eligible,
			issues = EXCLUDED.issues,
			evidence = EXCLUDED.evidence
	`, scanID, res.Success, res.RiskScore,
		res.AccessibilityIssues, res.AIRetentionIssues, res.PrivacyIssues, res.ShadowAIIssues,
		res.CureNoticeEligible, issues, evidence)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (db *DB) LatestByDomain(ctx context.Context, registrable string) (domain.ScanResult, bool, error) {
	var res domain.ScanResult
	var issues, evidence []byte
	err := db.Pool.QueryRow(ctx, `
		SELECT r.success, r.risk_score,
		       r.accessibility_issues, r.ai_retention_issues, r.privacy_issues, r.shadow_ai_issues,
		       r.cure_notice_eligible, r.issues, r.evidence
		FROM scan_results r
		JOIN domains d ON d.id = r.domain_id
		WHERE d.registrable_domain = $1
		ORDER BY r.created_at DESC
		LIMIT 1
	`, strings.ToLower(registrable)).Scan(
		&res.Success, &res.RiskScore,
		&res.AccessibilityIssues, &res.AIRetentionIssues, &res.PrivacyIssues, &res.ShadowAIIssues,
		&res.CureNoticeEligible, &issues, &evidence)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ScanResult{}, false, nil
	}
	if err != nil {
		return domain.ScanResult{}, false, err
	}
	if err := json.Unmarshal(issues, &res.Issues); err != nil {
		return domain.ScanResult{}, false, fmt.Errorf("unmarshal issues: %w", err)
	}
	if err := json.Unmarshal(evidence, &res.Evidence); err != nil {
		return domain.ScanResult{}, false, fmt.Errorf("unmarshal evidence: %w", err)
	}
	return res, true, nil
}

func (db *DB) PreviousScore(ctx context.Context, scanID string) (int, bool, error) {
	var score int
	err := db.Pool.QueryRow(ctx, `
		SELECT r.risk_score
		FROM scan_results r
		JOIN scans s ON s.domain_id = r.domain_id
		WHERE s.id = $1 AND r.scan_id <> s.id
		ORDER BY r.created_at DESC
		LIMIT 1
	`, scanID).Scan(&score)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

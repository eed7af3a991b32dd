package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/sigil/internal/signing/domain"
	"github.com/aussiebroadwan/sigil/internal/signing/store"
)

type documentsRepo struct {
	db dbtx
}

const documentColumns = `id, subject_id, signer_name, signer_phone, signer_email,
	payload, payload_hash, artifact_hash, artifact_locator, artifact_size,
	signed_at, method, audit_ip, audit_agent, audit_channel, audit_destination,
	status, expires_at, created_at, updated_at`

func (r *documentsRepo) Create(ctx context.Context, doc domain.SignedDocument) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO signed_documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID,
		doc.SubjectID,
		doc.Signer.Name,
		doc.Signer.Phone,
		doc.Signer.Email,
		string(doc.Payload),
		doc.PayloadHash,
		doc.ArtifactHash,
		doc.ArtifactLocator,
		doc.ArtifactSize,
		doc.SignedAt.UTC(),
		doc.Method,
		doc.Audit.IP,
		doc.Audit.Agent,
		string(doc.Audit.Channel),
		doc.Audit.DestinationMasked,
		string(doc.Status),
		mapOptionalTime(doc.ExpiresAt),
		doc.CreatedAt.UTC(),
		doc.UpdatedAt.UTC(),
	)
	return err
}

// GetOwned scopes the lookup to the owning subject so documents belonging to
// other subjects are indistinguishable from missing ones.
func (r *documentsRepo) GetOwned(ctx context.Context, id, subjectID string) (domain.SignedDocument, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM signed_documents
		WHERE id = ? AND subject_id = ?`,
		id, subjectID,
	)
	return scanDocument(row)
}

func (r *documentsRepo) UpdateStatus(ctx context.Context, id, subjectID string, status domain.DocumentStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE signed_documents
		SET status = ?, updated_at = ?
		WHERE id = ? AND subject_id = ?`,
		string(status), time.Now().UTC(), id, subjectID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *documentsRepo) SetExpiry(ctx context.Context, id, subjectID string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE signed_documents
		SET expires_at = ?, updated_at = ?
		WHERE id = ? AND subject_id = ?`,
		expiresAt.UTC(), time.Now().UTC(), id, subjectID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanDocument(row rowScanner) (domain.SignedDocument, error) {
	var (
		doc       domain.SignedDocument
		payload   string
		channel   string
		status    string
		expiresAt sql.NullTime
	)
	err := row.Scan(
		&doc.ID,
		&doc.SubjectID,
		&doc.Signer.Name,
		&doc.Signer.Phone,
		&doc.Signer.Email,
		&payload,
		&doc.PayloadHash,
		&doc.ArtifactHash,
		&doc.ArtifactLocator,
		&doc.ArtifactSize,
		&doc.SignedAt,
		&doc.Method,
		&doc.Audit.IP,
		&doc.Audit.Agent,
		&channel,
		&doc.Audit.DestinationMasked,
		&status,
		&expiresAt,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return domain.SignedDocument{}, mapNotFound(err)
	}
	doc.Payload = []byte(payload)
	doc.Audit.Channel = domain.Channel(channel)
	doc.Status = domain.DocumentStatus(status)
	doc.ExpiresAt = mapNullTimePtr(expiresAt)
	return doc, nil
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

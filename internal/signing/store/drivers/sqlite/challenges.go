package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/sigil/internal/signing/domain"
)

type challengesRepo struct {
	db dbtx
}

const challengeColumns = `id, subject_id, payload_hash, code_hash, channel, destination,
	attempts_used, attempts_max, request_ip, request_agent, created_at, expires_at`

func (r *challengesRepo) Create(ctx context.Context, ch domain.Challenge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO challenges (`+challengeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ch.ID,
		ch.SubjectID,
		ch.PayloadHash,
		ch.CodeHash,
		string(ch.Channel),
		ch.Destination,
		ch.AttemptsUsed,
		ch.AttemptsMax,
		ch.RequestIP,
		ch.RequestAgent,
		ch.CreatedAt.UTC(),
		ch.ExpiresAt.UTC(),
	)
	return err
}

func (r *challengesRepo) GetLive(ctx context.Context, subjectID, payloadHash string) (domain.Challenge, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+challengeColumns+`
		FROM challenges
		WHERE subject_id = ? AND payload_hash = ? AND expires_at > ?`,
		subjectID, payloadHash, time.Now().UTC(),
	)
	return scanChallenge(row)
}

func (r *challengesRepo) IncrementAttempts(ctx context.Context, id string) (domain.Challenge, error) {
	// Single increment-and-fetch statement so two concurrent wrong guesses
	// cannot both observe the pre-increment count.
	row := r.db.QueryRowContext(ctx, `
		UPDATE challenges
		SET attempts_used = attempts_used + 1
		WHERE id = ?
		RETURNING `+challengeColumns,
		id,
	)
	return scanChallenge(row)
}

func (r *challengesRepo) Delete(ctx context.Context, subjectID, payloadHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM challenges
		WHERE subject_id = ? AND payload_hash = ?`,
		subjectID, payloadHash,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *challengesRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM challenges
		WHERE id = ?`,
		id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *challengesRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM challenges WHERE expires_at <= ?`,
		time.Now().UTC(),
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChallenge(row rowScanner) (domain.Challenge, error) {
	var (
		ch      domain.Challenge
		channel string
	)
	err := row.Scan(
		&ch.ID,
		&ch.SubjectID,
		&ch.PayloadHash,
		&ch.CodeHash,
		&channel,
		&ch.Destination,
		&ch.AttemptsUsed,
		&ch.AttemptsMax,
		&ch.RequestIP,
		&ch.RequestAgent,
		&ch.CreatedAt,
		&ch.ExpiresAt,
	)
	if err != nil {
		return domain.Challenge{}, mapNotFound(err)
	}
	ch.Channel = domain.Channel(channel)
	return ch, nil
}

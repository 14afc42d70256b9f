package importer

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/iliyamo/warranty-migration/internal/legacy"
	"github.com/iliyamo/warranty-migration/internal/model"
)

// importUsers migrates the CLIENTE table. One transaction spans the whole
// stage; a row-level problem is recorded and the loop continues, while a
// store error rolls back and escalates.
func (p *Pipeline) importUsers(ctx context.Context, log zerolog.Logger, doc *legacy.Document, mode Mode) (StageResult, error) {
	var res StageResult
	rows, err := doc.Table(tableUsers)
	if err != nil {
		return res, err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	for i := range rows {
		rec := legacy.UserRecordFromRow(&rows[i])
		if err := p.importUser(ctx, log, tx, rec, mode, &res); err != nil {
			_ = tx.Rollback()
			return res, err
		}
	}
	return res, tx.Commit()
}

func (p *Pipeline) importUser(ctx context.Context, log zerolog.Logger, tx *sql.Tx, rec legacy.UserRecord, mode Mode, res *StageResult) error {
	label := rowLabel(rec.LegacyID)
	if legacy.Blank(rec.Email) {
		res.fail("user", label, "missing required field EMAIL")
		return nil
	}
	if legacy.Blank(rec.Name) {
		res.fail("user", label, "missing required field NOME")
		return nil
	}

	existing, err := p.users.FindByEmailTx(ctx, tx, *rec.Email)
	if err != nil {
		return err
	}
	// The first pass also matches by tax id: the legacy platform let the
	// same person register twice under different emails.
	if existing == nil && mode == ModeFirstPass && !legacy.Blank(rec.TaxID) {
		if existing, err = p.users.FindByTaxIDTx(ctx, tx, *rec.TaxID); err != nil {
			return err
		}
	}
	if existing != nil {
		if mode == ModeFixUp && existing.LegacyID == nil && !legacy.Blank(rec.LegacyID) {
			if err := p.users.SetLegacyIDTx(ctx, tx, existing.ID, *rec.LegacyID); err != nil {
				return err
			}
			res.Backfilled++
			log.Info().Str("legacy_id", *rec.LegacyID).Uint64("user_id", existing.ID).
				Msg("backfilled legacy id on existing user")
			return nil
		}
		res.Skipped++
		log.Debug().Str("legacy_id", label).Msg("user already present")
		return nil
	}

	var hash *string
	if !legacy.Blank(rec.Password) {
		if hash, err = legacy.DecodePasswordHash(*rec.Password); err != nil {
			// The account is still created; it just has no usable
			// credential until the reset flow issues one.
			log.Warn().Str("legacy_id", label).Err(err).
				Msg("could not decode legacy credential")
		}
	}

	birth := decodeDate(log, "user", label, "DATA_NASCIMENTO", rec.BirthDate)
	created := decodeDate(log, "user", label, "DATA_CADASTRO", rec.RegisteredAt)
	u := model.User{
		Name:         *rec.Name,
		Email:        *rec.Email,
		TaxID:        opt(rec.TaxID),
		Phone:        opt(rec.Phone),
		Address:      opt(rec.Address),
		City:         opt(rec.City),
		State:        opt(rec.State),
		PostalCode:   opt(rec.PostalCode),
		PasswordHash: hash,
		BirthDate:    birth,
		LegacyID:     opt(rec.LegacyID),
		Confirmed:    true,
		Active:       true,
		CreatedAt:    p.now(),
	}
	if created != nil {
		u.CreatedAt = *created
	}
	if err := p.users.InsertTx(ctx, tx, &u); err != nil {
		return err
	}
	res.Imported++
	return nil
}

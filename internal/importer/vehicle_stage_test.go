package importer

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vehicleDoc(fields string) string {
	return fmt.Sprintf(`<export><VEICULO><row>%s</row></VEICULO></export>`, fields)
}

func expectUserMap(mock sqlmock.Sqlmock, pairs ...interface{}) {
	rows := sqlmock.NewRows([]string{"id", "legacy_id"})
	for i := 0; i+1 < len(pairs); i += 2 {
		rows.AddRow(pairs[i], pairs[i+1])
	}
	mock.ExpectQuery("SELECT id, legacy_id FROM users").WillReturnRows(rows)
}

func TestImportVehicleInsertsAndNormalizesYear(t *testing.T) {
	p, mock := newTestPipeline(t)
	doc := parseDoc(t, vehicleDoc(`
		<ID_VEICULO>5</ID_VEICULO>
		<ID_CLIENTE>77</ID_CLIENTE>
		<MARCA>Fiat</MARCA>
		<MODELO>Uno</MODELO>
		<ANO_MODELO>2011/2012</ANO_MODELO>
		<PLACA>ABC1234</PLACA>`))

	expectUserMap(mock, 1, "77")
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE user_id = (.+) AND plate").
		WithArgs(1, "ABC1234").
		WillReturnRows(sqlmock.NewRows(vehicleCols))
	// The combined fabrication/model year keeps only the first token.
	mock.ExpectExec("INSERT INTO vehicles").
		WithArgs(1, "Fiat", "Uno", 2011, "ABC1234", nil, nil, "5", true).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectCommit()

	res, err := p.importVehicles(context.Background(), zerolog.Nop(), doc, ModeFirstPass)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Empty(t, res.Errors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportVehicleSkipsUnmigratedOwner(t *testing.T) {
	p, mock := newTestPipeline(t)
	doc := parseDoc(t, vehicleDoc(`
		<ID_VEICULO>5</ID_VEICULO>
		<ID_CLIENTE>99</ID_CLIENTE>
		<MARCA>Fiat</MARCA>
		<MODELO>Uno</MODELO>
		<PLACA>ABC1234</PLACA>`))

	expectUserMap(mock, 1, "77")
	mock.ExpectBegin()
	mock.ExpectCommit()

	res, err := p.importVehicles(context.Background(), zerolog.Nop(), doc, ModeFirstPass)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "owner 99 has no migrated user")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportVehicleSkipsMissingPlate(t *testing.T) {
	p, mock := newTestPipeline(t)
	doc := parseDoc(t, vehicleDoc(`
		<ID_VEICULO>5</ID_VEICULO>
		<ID_CLIENTE>77</ID_CLIENTE>
		<MARCA>Fiat</MARCA>
		<MODELO>Uno</MODELO>`))

	expectUserMap(mock, 1, "77")
	mock.ExpectBegin()
	mock.ExpectCommit()

	res, err := p.importVehicles(context.Background(), zerolog.Nop(), doc, ModeFirstPass)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "MARCA, MODELO or PLACA")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportVehicleFixUpBackfillsLegacyID(t *testing.T) {
	p, mock := newTestPipeline(t)
	doc := parseDoc(t, vehicleDoc(`
		<ID_VEICULO>5</ID_VEICULO>
		<ID_CLIENTE>77</ID_CLIENTE>
		<MARCA>Fiat</MARCA>
		<MODELO>Uno</MODELO>
		<PLACA>ABC1234</PLACA>`))

	expectUserMap(mock, 1, "77")
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE user_id = (.+) AND plate").
		WillReturnRows(vehicleRow(10, nil))
	mock.ExpectExec("UPDATE vehicles SET legacy_vehicle_id").
		WithArgs("5", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := p.importVehicles(context.Background(), zerolog.Nop(), doc, ModeFixUp)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Backfilled)
	assert.Equal(t, 0, res.Skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

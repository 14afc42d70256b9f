package legacy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wrapperExport = `<?xml version="1.0" encoding="utf-8"?>
<export>
  <CLIENTE>
    <row>
      <ID_CLIENTE>77</ID_CLIENTE>
      <NOME>Ana</NOME>
      <EMAIL>ana@example.com</EMAIL>
      <CPF_CNPJ></CPF_CNPJ>
    </row>
    <row>
      <ID_CLIENTE>78</ID_CLIENTE>
      <NOME>Bruno</NOME>
    </row>
  </CLIENTE>
  <VEICULO>
    <row>
      <ID_VEICULO>5</ID_VEICULO>
      <ID_CLIENTE>77</ID_CLIENTE>
      <PLACA>ABC1234</PLACA>
    </row>
  </VEICULO>
</export>`

const repeatedRowExport = `<export>
  <CLIENTE><ID_CLIENTE>77</ID_CLIENTE><NOME>Ana</NOME></CLIENTE>
  <CLIENTE><ID_CLIENTE>78</ID_CLIENTE><NOME>Bruno</NOME></CLIENTE>
</export>`

func TestTableWrapperLayout(t *testing.T) {
	doc, err := Parse(strings.NewReader(wrapperExport))
	require.NoError(t, err)

	rows, err := doc.Table("CLIENTE")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := FieldOrEmpty(t, &rows[0], "ID_CLIENTE")
	assert.Equal(t, "77", first)
	assert.Equal(t, "Ana", FieldOrEmpty(t, &rows[0], "NOME"))

	vehicles, err := doc.Table("VEICULO")
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "ABC1234", FieldOrEmpty(t, &vehicles[0], "PLACA"))
}

func TestTableRepeatedRowLayout(t *testing.T) {
	doc, err := Parse(strings.NewReader(repeatedRowExport))
	require.NoError(t, err)

	rows, err := doc.Table("CLIENTE")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "78", FieldOrEmpty(t, &rows[1], "ID_CLIENTE"))
}

func TestTableNotFound(t *testing.T) {
	doc, err := Parse(strings.NewReader(wrapperExport))
	require.NoError(t, err)

	_, err = doc.Table("PRODUTO_APLICADO")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.Contains(t, err.Error(), "PRODUTO_APLICADO")
}

func TestFieldPresenceAndBlank(t *testing.T) {
	doc, err := Parse(strings.NewReader(wrapperExport))
	require.NoError(t, err)
	rows, err := doc.Table("CLIENTE")
	require.NoError(t, err)

	// Absent element decodes to nil.
	assert.Nil(t, Field(&rows[1], "EMAIL"))
	// Present-but-empty element decodes to the empty string.
	taxID := Field(&rows[0], "CPF_CNPJ")
	require.NotNil(t, taxID)
	assert.Equal(t, "", *taxID)

	assert.True(t, Blank(nil))
	assert.True(t, Blank(taxID))
	assert.False(t, Blank(Field(&rows[0], "EMAIL")))
}

func TestRecordDecoding(t *testing.T) {
	doc, err := Parse(strings.NewReader(wrapperExport))
	require.NoError(t, err)
	rows, err := doc.Table("CLIENTE")
	require.NoError(t, err)

	rec := UserRecordFromRow(&rows[0])
	require.NotNil(t, rec.Email)
	assert.Equal(t, "ana@example.com", *rec.Email)
	assert.Nil(t, rec.Phone)

	vrows, err := doc.Table("VEICULO")
	require.NoError(t, err)
	vrec := VehicleRecordFromRow(&vrows[0])
	require.NotNil(t, vrec.OwnerLegacyID)
	assert.Equal(t, "77", *vrec.OwnerLegacyID)
	assert.Equal(t, "ABC1234", *vrec.Plate)
}

// FieldOrEmpty is a test helper that fails when the field is absent.
func FieldOrEmpty(t *testing.T, row *Node, name string) string {
	t.Helper()
	v := Field(row, name)
	require.NotNil(t, v, "field %s", name)
	return *v
}

package legacy

// Staging records are strictly-typed, read-only views over a single row of
// the export. Every field is optional because legacy data completeness is
// not guaranteed; each record is populated in one place so that all field
// naming lives here and nowhere else. Records exist only while their row is
// being processed and are never persisted.

// UserRecord mirrors one CLIENTE row.
type UserRecord struct {
	LegacyID     *string // ID_CLIENTE
	Name         *string // NOME
	Email        *string // EMAIL
	Password     *string // SENHA (hex-wrapped JSON, see DecodePasswordHash)
	TaxID        *string // CPF_CNPJ
	Phone        *string // TELEFONE
	Address      *string // ENDERECO
	City         *string // CIDADE
	State        *string // ESTADO
	PostalCode   *string // CEP
	BirthDate    *string // DATA_NASCIMENTO
	RegisteredAt *string // DATA_CADASTRO
}

// UserRecordFromRow decodes a CLIENTE row into its staging record.
func UserRecordFromRow(row *Node) UserRecord {
	return UserRecord{
		LegacyID:     Field(row, "ID_CLIENTE"),
		Name:         Field(row, "NOME"),
		Email:        Field(row, "EMAIL"),
		Password:     Field(row, "SENHA"),
		TaxID:        Field(row, "CPF_CNPJ"),
		Phone:        Field(row, "TELEFONE"),
		Address:      Field(row, "ENDERECO"),
		City:         Field(row, "CIDADE"),
		State:        Field(row, "ESTADO"),
		PostalCode:   Field(row, "CEP"),
		BirthDate:    Field(row, "DATA_NASCIMENTO"),
		RegisteredAt: Field(row, "DATA_CADASTRO"),
	}
}

// VehicleRecord mirrors one VEICULO row.
type VehicleRecord struct {
	LegacyID      *string // ID_VEICULO
	OwnerLegacyID *string // ID_CLIENTE
	Make          *string // MARCA
	Model         *string // MODELO
	ModelYear     *string // ANO_MODELO ("2011/2012" style, see ParseModelYear)
	Plate         *string // PLACA
	Color         *string // COR
	Chassis       *string // CHASSI
}

// VehicleRecordFromRow decodes a VEICULO row into its staging record.
func VehicleRecordFromRow(row *Node) VehicleRecord {
	return VehicleRecord{
		LegacyID:      Field(row, "ID_VEICULO"),
		OwnerLegacyID: Field(row, "ID_CLIENTE"),
		Make:          Field(row, "MARCA"),
		Model:         Field(row, "MODELO"),
		ModelYear:     Field(row, "ANO_MODELO"),
		Plate:         Field(row, "PLACA"),
		Color:         Field(row, "COR"),
		Chassis:       Field(row, "CHASSI"),
	}
}

// WarrantyRecord mirrors one PRODUTO_APLICADO row. The source has no stable
// warranty id; (owner, REFERENCIA, LOTE) acts as the natural key downstream.
type WarrantyRecord struct {
	OwnerLegacyID   *string // ID_CLIENTE
	VehicleLegacyID *string // ID_VEICULO
	ProductRef      *string // REFERENCIA (product SKU)
	BatchLot        *string // LOTE
	InstallDate     *string // DATA_APLICACAO
	Mileage         *string // KM_APLICACAO
	WorkshopName    *string // NOME_OFICINA
	InvoiceNumber   *string // NF_OFICINA
}

// WarrantyRecordFromRow decodes a PRODUTO_APLICADO row into its staging record.
func WarrantyRecordFromRow(row *Node) WarrantyRecord {
	return WarrantyRecord{
		OwnerLegacyID:   Field(row, "ID_CLIENTE"),
		VehicleLegacyID: Field(row, "ID_VEICULO"),
		ProductRef:      Field(row, "REFERENCIA"),
		BatchLot:        Field(row, "LOTE"),
		InstallDate:     Field(row, "DATA_APLICACAO"),
		Mileage:         Field(row, "KM_APLICACAO"),
		WorkshopName:    Field(row, "NOME_OFICINA"),
		InvoiceNumber:   Field(row, "NF_OFICINA"),
	}
}

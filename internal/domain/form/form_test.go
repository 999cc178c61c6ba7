package form

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/farhandwi/dots/internal/domain/entity"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty("x"))
}

func TestFieldPresence(t *testing.T) {
	data := entity.FormData{CompanyCode: "1000", CostCenter: "CC001", Remark: " "}

	assert.True(t, AreFieldsFilled(data, "company_code", "cost_center"))
	assert.False(t, AreFieldsFilled(data, "company_code", "remark"))
	assert.False(t, AreFieldsFilled(data, "no_such_field"))
	assert.True(t, AreFieldsFilled(data))

	assert.True(t, HasFilledData(data))
	assert.False(t, HasFilledData(entity.FormData{Remark: "  "}))

	assert.True(t, HasFilledDataSpecific(data, "bp", "cost_center"))
	assert.False(t, HasFilledDataSpecific(data, "bp", "remark"))
}

func TestIsRequiredFieldsFilled(t *testing.T) {
	base := entity.FormData{
		TrxType:     "1",
		FormType:    entity.FormTypeCashInAdvance,
		CompanyCode: "1000",
		CostCenter:  "CC001",
		BP:          "100200",
		Currency:    "IDR",
		Amount:      "1500000",
		Description: "Travel advance",
	}

	assert.False(t, IsRequiredFieldsFilled(base))
	assert.Equal(t, []string{"due_date"}, MissingFields(base))

	base.DueDate = "2024-03-09"
	assert.True(t, IsRequiredFieldsFilled(base))
	assert.Empty(t, MissingFields(base))

	reimbursement := base
	reimbursement.FormType = entity.FormTypeReimbursement
	assert.Equal(t, []string{"invoice_number", "invoice_date"}, MissingFields(reimbursement))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1,000.00", FormatCurrency(1000, "USD"))
	assert.Equal(t, "", FormatCurrency(math.NaN(), "USD"))
	assert.Equal(t, "-$12.50", FormatCurrency(-12.5, "USD"))
	assert.Equal(t, "", FormatCurrency(10, "NOT-A-CODE"))
}

func TestFormatCurrency_MinorUnits(t *testing.T) {
	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{1234567.891, "IDR", "IDR 1,234,567.89"},
		{1000, "USD", "$1,000.00"},
		{1234.6, "JPY", "¥1,235"},
		{12.5, "KWD", "KWD 12.500"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.amount, tt.code))
		})
	}
}

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$1,000.50", 1000.50},
		{"abc", 0},
		{"", 0},
		{"-250", -250},
		{"Rp 1.500", 1.5},
		{"1.2.3", 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanNumber(tt.in))
		})
	}
}

func TestDiffAmountColor(t *testing.T) {
	assert.Equal(t, "text-green-600", DiffAmountColor(10))
	assert.Equal(t, "text-red-600", DiffAmountColor(-0.01))
	assert.Equal(t, "text-gray-900", DiffAmountColor(0))
}

func TestDates(t *testing.T) {
	now := time.Date(2024, 2, 25, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-02-25", CurrentDate(now))
	assert.Equal(t, "2024-02-24", YesterdayDate(now))
	assert.Equal(t, "2024-03-04", DefaultDueDate(now))
	assert.Equal(t, now.AddDate(0, 0, 8).Format("2006-01-02"), DefaultDueDate(now))
	assert.Equal(t, "25 Feb 2024", FormatDisplayDate(now))
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2024-02-25", "2024-02-25T10:00:00Z", "2024-02-25 10:00:00"} {
		got, err := ParseDate(in)
		assert.NoError(t, err, in)
		assert.Equal(t, 2024, got.Year())
	}

	_, err := ParseDate("25/02/2024")
	assert.Error(t, err)
}

func TestTypeColor(t *testing.T) {
	assert.Equal(t, "bg-blue-100 text-blue-800", TypeColor("ZMIN"))
	assert.Equal(t, "bg-green-100 text-green-800", TypeColor("ZMNI"))
	assert.Equal(t, "bg-yellow-100 text-yellow-800", TypeColor("ZMNV"))
	assert.Equal(t, "bg-purple-100 text-purple-800", TypeColor("ZSRV"))
	assert.Equal(t, "bg-gray-100 text-gray-800", TypeColor("ZXXX"))
}

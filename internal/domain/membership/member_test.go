package membership

import (
	"strings"
	"testing"

	"github.com/library/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMember(t *testing.T) {
	m, err := NewMember(" Ana Perez ", " 30111222 ", 7)
	require.NoError(t, err)

	assert.Equal(t, "Ana Perez", m.Name)
	assert.Equal(t, "30111222", m.PersonalID)
	assert.Equal(t, int64(7), m.Sequence)
	assert.Equal(t, "MBR-000007", m.Number)
}

func TestNewMember_Validation(t *testing.T) {
	tests := []struct {
		name       string
		memberName string
		personalID string
		sequence   int64
	}{
		{"zero sequence", "Ana", "1", 0},
		{"negative sequence", "Ana", "1", -3},
		{"missing name", " ", "1", 1},
		{"missing personal id", "Ana", "", 1},
		{"name too long", strings.Repeat("a", 201), "1", 1},
		{"personal id too long", "Ana", strings.Repeat("9", 31), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMember(tt.memberName, tt.personalID, tt.sequence)
			require.Error(t, err)
			assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		})
	}
}

func TestMember_UpdateKeepsNumber(t *testing.T) {
	m, err := NewMember("Ana", "1", 3)
	require.NoError(t, err)

	require.NoError(t, m.Update("Ana Maria", "2"))
	assert.Equal(t, "Ana Maria", m.Name)
	assert.Equal(t, "2", m.PersonalID)
	assert.Equal(t, "MBR-000003", m.Number)
	assert.Equal(t, int64(3), m.Sequence)

	assert.Error(t, m.Update("", "2"))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "MBR-000001", FormatNumber(1))
	assert.Equal(t, "MBR-123456", FormatNumber(123456))
	assert.Equal(t, "MBR-1234567", FormatNumber(1234567))
}

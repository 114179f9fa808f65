package auth

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", h)

	assert.NoError(t, CheckPassword(h, "correct horse"))
	assert.ErrorIs(t, CheckPassword(h, "correct hors"), common.ErrorUnauthorized)
	assert.ErrorIs(t, CheckPassword(h, "correct horsf"), common.ErrorUnauthorized)
}

func TestHashPassword_UsesCost(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("pw", bcrypt.MinCost+1)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
}

func TestHashPassword_SaltsEachHash(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("pw", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("pw", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCheckPassword_BadHash(t *testing.T) {
	t.Parallel()

	err := CheckPassword("not-a-hash", "pw")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
}

func TestCheckPassword_OverByteLimit(t *testing.T) {
	h, err := HashPassword(strings.Repeat("é", 36), bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(h, strings.Repeat("é", 36)))
	assert.ErrorIs(t, CheckPassword(h, strings.Repeat("é", 36)+"x"), common.ErrorUnauthorized)
}

package category

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saldoboek/saldoboek/internal/model"
)

func TestWriteReadCategories(t *testing.T) {
	cats := []model.Category{
		{Name: "Groceries", Type: model.CategoryExpense, Description: "Supermarket, market"},
		{Name: "Salary", Type: model.CategoryIncome},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCategories(&buf, cats))
	assert.True(t, strings.HasPrefix(buf.String(), "name,type,description\n"))
	assert.Contains(t, buf.String(), `"Supermarket, market"`)

	got, err := ReadCategories(&buf)
	require.NoError(t, err)
	assert.Equal(t, cats, got)
}

func TestReadCategories_Empty(t *testing.T) {
	got, err := ReadCategories(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadCategories_BadType(t *testing.T) {
	_, err := ReadCategories(strings.NewReader("name,type,description\nRent,liability,\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "liability")
}

func TestUnmarshalCategory_NormalizesType(t *testing.T) {
	c, err := UnmarshalCategory([]string{" Rent ", "Expense", " monthly "})
	require.NoError(t, err)
	assert.Equal(t, model.Category{Name: "Rent", Type: model.CategoryExpense, Description: "monthly"}, c)
}

func TestUnmarshalCategory_EmptyName(t *testing.T) {
	_, err := UnmarshalCategory([]string{"", "income", ""})
	assert.Error(t, err)
}

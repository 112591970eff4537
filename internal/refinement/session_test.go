package refinement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefineResetsPageAndTogglesValue(t *testing.T) {
	session := NewSession("products", 20)
	session.Query("red")
	session.Refine("color", "red")
	session.GotoPage(2)
	assert.Equal(t, 2, session.Page())

	session.Refine("size", "M")
	assert.Equal(t, 0, session.Page())
	assert.True(t, session.IsRefined("color", "red"))
	assert.True(t, session.IsRefined("size", "M"))

	session.GotoPage(1)
	assert.Equal(t, 1, session.Page())
	assert.True(t, session.IsRefined("size", "M"))
}

func TestRefineToggleRemovesValue(t *testing.T) {
	session := NewSession("products", 20)
	session.Refine("color", "red")
	session.Refine("color", "red")
	assert.False(t, session.IsRefined("color", "red"))
	assert.Empty(t, session.Request().Refinements)
}

func TestQueryResetsPageKeepsRefinements(t *testing.T) {
	session := NewSession("products", 20)
	session.Refine("color", "red")
	session.GotoPage(3)

	session.Query("linen")
	assert.Equal(t, 0, session.Page())
	assert.True(t, session.IsRefined("color", "red"))
	assert.Equal(t, "linen", session.QueryText())
}

func TestRequestSortsValues(t *testing.T) {
	session := NewSession("products", 20)
	session.Refine("color", "red")
	session.Refine("color", "blue")

	req := session.Request()
	assert.Equal(t, []string{"blue", "red"}, req.Refinements["color"])
	assert.Equal(t, "products", req.Collection)
	assert.Equal(t, 20, req.PageSize)
}

func TestClearDropsRefinementsKeepsQuery(t *testing.T) {
	session := NewSession("products", 20)
	session.Query("linen")
	session.Refine("color", "red")
	session.GotoPage(2)

	session.Clear()
	assert.Equal(t, 0, session.Page())
	assert.False(t, session.IsRefined("color", "red"))
	assert.Equal(t, "linen", session.QueryText())
}

func TestGotoPageClampsNegative(t *testing.T) {
	session := NewSession("products", 20)
	session.GotoPage(-4)
	assert.Equal(t, 0, session.Page())
}

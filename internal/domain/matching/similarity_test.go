package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "acme inc", Normalize("ACME, Inc."))
	assert.Equal(t, "acme inc", Normalize("  acme   inc  "))
	assert.Equal(t, "", Normalize("   "))
}

func TestSimilarityIdentical(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Acme Corp", "ACME CORP"))
	assert.Equal(t, 1.0, Similarity("Acme, Inc.", "acme inc"))
}

func TestSimilarityDisjoint(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("Acme", "Zzyzx"))
	assert.Equal(t, 0.0, Similarity("", "Acme"))
	assert.Equal(t, 0.0, Similarity("", ""))
}

func TestSimilarityClose(t *testing.T) {
	// One-character typo in a long name stays above the customer
	// threshold; an unrelated name stays below it.
	score := Similarity("Northwind Traders", "Northwind Tradars")
	assert.GreaterOrEqual(t, score, CustomerThreshold)

	score = Similarity("Northwind Traders", "Southbridge Metals")
	assert.Less(t, score, CustomerThreshold)
}

func TestBestMatchExact(t *testing.T) {
	candidates := []string{"Globex", "Acme, Inc.", "Initech"}
	m, ok := BestMatch("acme inc", candidates, CustomerThreshold)
	require.True(t, ok)
	assert.Equal(t, 1, m.Index)
	assert.Equal(t, 1.0, m.Score)
}

func TestBestMatchFuzzy(t *testing.T) {
	candidates := []string{"Globex Corporation", "Northwind Traders"}
	m, ok := BestMatch("Northwind Tradars", candidates, CustomerThreshold)
	require.True(t, ok)
	assert.Equal(t, "Northwind Traders", m.Value)
	assert.GreaterOrEqual(t, m.Score, CustomerThreshold)
}

func TestBestMatchBelowThreshold(t *testing.T) {
	_, ok := BestMatch("Quantum Widgets", []string{"Globex", "Initech"}, CustomerThreshold)
	assert.False(t, ok)
}

func TestBestMatchEmptyQuery(t *testing.T) {
	_, ok := BestMatch("  ", []string{"Globex"}, CustomerThreshold)
	assert.False(t, ok)
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "123 n main st ste 4", NormalizeAddress("123 North Main Street, Suite 4"))
	assert.Equal(t, "500 w oak ave", NormalizeAddress("500 West Oak Avenue"))
}

func TestAddressSimilarity(t *testing.T) {
	score := AddressSimilarity("123 North Main Street, Suite 4", "123 N Main St Ste 4")
	assert.GreaterOrEqual(t, score, AddressThreshold)
}

func TestParseAddressFull(t *testing.T) {
	p := ParseAddress("Acme Corp, 123 Main St, Suite 4, Springfield, IL 62704")
	assert.Equal(t, "Acme Corp", p.Company)
	assert.Equal(t, "123 Main St", p.Line1)
	assert.Equal(t, "Suite 4", p.Line2)
	assert.Equal(t, "Springfield", p.City)
	assert.Equal(t, "IL", p.State)
	assert.Equal(t, "62704", p.Postcode)
}

func TestParseAddressZipPlusFour(t *testing.T) {
	p := ParseAddress("123 Main St, Springfield, IL 62704-1234")
	assert.Equal(t, "123 Main St", p.Line1)
	assert.Equal(t, "Springfield", p.City)
	assert.Equal(t, "IL", p.State)
	assert.Equal(t, "62704-1234", p.Postcode)
}

func TestParseAddressNoCompany(t *testing.T) {
	p := ParseAddress("123 Main St, Ste 9, Springfield, IL 62704")
	assert.Equal(t, "", p.Company)
	assert.Equal(t, "123 Main St", p.Line1)
	assert.Equal(t, "Ste 9", p.Line2)
	assert.Equal(t, "Springfield", p.City)
}

func TestParseAddressMinimal(t *testing.T) {
	p := ParseAddress("123 Main St")
	assert.Equal(t, "123 Main St", p.Line1)
	assert.Empty(t, p.City)
	assert.Empty(t, p.Postcode)

	p = ParseAddress("")
	assert.Equal(t, ParsedAddress{}, p)
}

package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func misakaRegionURL(code string) string {
	return "https://app.misaka.io/iaas/vm/create/" + code + "/s3n-2c4g"
}

func TestMisakaAllRegions(t *testing.T) {
	f := stubFetcher{
		misakaRegionURL("sin03"): "<html>HK$ 44.9 per month</html>",
		misakaRegionURL("nrt04"): "<html>$44.9 /mo</html>",
		misakaRegionURL("hkg12"): "<html>HK$44.9 but SOLD OUT</html>",
		misakaRegionURL("tpe01"): "<html>no price markers</html>",
	}
	p := NewParser(f)

	recs, err := p.ParseProduct(context.Background(), "https://app.misaka.io/iaas/vm/create/hkg12/s3n-2c4g")
	require.NoError(t, err)
	require.Len(t, recs, 4)

	byName := map[string]int{}
	for i, rec := range recs {
		byName[rec.Name] = i
		assert.Equal(t, "Misaka", rec.Merchant)
		assert.Equal(t, "2C/4G", rec.Specs)
	}

	sin := recs[byName["Singapore SIN03 s3n-2c4g"]]
	assert.Equal(t, "HK$44.9/mo", sin.Price)
	assert.True(t, sin.InStock)
	assert.Equal(t, misakaRegionURL("sin03"), sin.URL)

	nrt := recs[byName["Tokyo NRT04 s3n-2c4g"]]
	assert.Equal(t, "HK$44.9/mo", nrt.Price, "the $N/mo form is normalized to HK$")

	hkg := recs[byName["Hong Kong HKG12 s3n-2c4g"]]
	assert.False(t, hkg.InStock)

	tpe := recs[byName["Taipei TPE01 s3n-2c4g"]]
	assert.Equal(t, "price unknown", tpe.Price)
	assert.True(t, tpe.InStock)
}

func TestMisakaFailedRegionsOmitted(t *testing.T) {
	f := stubFetcher{
		misakaRegionURL("sin03"): "<html>HK$10</html>",
		misakaRegionURL("tpe01"): "<html>HK$12</html>",
	}
	p := NewParser(f)

	recs, err := p.ParseProduct(context.Background(), "https://app.misaka.io/iaas/vm/create/hkg12/s3n-2c4g")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Singapore SIN03 s3n-2c4g", recs[0].Name)
	assert.Equal(t, "Taipei TPE01 s3n-2c4g", recs[1].Name)
}

func TestMisakaAllRegionsFailed(t *testing.T) {
	p := NewParser(stubFetcher{})
	_, err := p.ParseProduct(context.Background(), "https://app.misaka.io/iaas/vm/create/hkg12/s3n-2c4g")
	assert.Error(t, err)
}

func TestMisakaPlanWithoutSpecPattern(t *testing.T) {
	url := "https://app.misaka.io/iaas/vm/create/hkg12/custom-plan"
	f := stubFetcher{
		"https://app.misaka.io/iaas/vm/create/sin03/custom-plan": "<html>HK$5</html>",
	}
	p := NewParser(f)

	recs, err := p.ParseProduct(context.Background(), url)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Specs)
	assert.Equal(t, "Singapore SIN03 custom-plan", recs[0].Name)
}

package deterministic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-intel/internal/model"
)

func TestExtractTechBuckets(t *testing.T) {
	pages := []model.SnapshotPage{
		{Name: "index", Content: `
			<link href="/wp-content/themes/acme/style.css">
			<script src="https://www.googletagmanager.com/gtag/js"></script>
			<script>gtag('config','G-1');</script>
			<script src="/assets/jquery.min.js"></script>
			<script id="hs-script-loader" src="https://js.hs-scripts.com/1.js"></script>
		`},
	}
	tech := ExtractTech(pages)
	assert.Equal(t, []string{"WordPress"}, tech.CMS)
	assert.Contains(t, tech.Analytics, "Google Analytics")
	assert.Contains(t, tech.Analytics, "Google Tag Manager")
	assert.Equal(t, []string{"jQuery"}, tech.Frontend)
	assert.Equal(t, []string{"HubSpot"}, tech.Marketing)
}

func TestExtractTechDeduplicates(t *testing.T) {
	pages := []model.SnapshotPage{
		{Name: "a", Content: "wp-content wp-content cdn.shopify.com shopify"},
	}
	tech := ExtractTech(pages)
	assert.Equal(t, []string{"WordPress", "Shopify"}, tech.CMS)
}

func TestExtractCertifications(t *testing.T) {
	text := "We are ISO 9001 and SOC 2 Type II compliant, and PCI DSS certified. pci-dss again."
	certs := ExtractCertifications(text)
	byName := map[string]string{}
	for _, c := range certs {
		byName[c.CertificationName] = c.IssuingAuthority
	}
	assert.Equal(t, "International Organization for Standardization", byName["ISO 9001"])
	assert.Equal(t, "AICPA", byName["SOC 2"])
	assert.Equal(t, "PCI Security Standards Council", byName["PCI-DSS"])
	require.Len(t, certs, 3)
}

func TestExtractCertificationsNone(t *testing.T) {
	assert.Empty(t, ExtractCertifications("We build houses."))
}

func TestTechStackSignalsAll(t *testing.T) {
	tech := model.TechStackSignals{
		CMS:      []string{"WordPress"},
		Frontend: []string{"React", "WordPress"},
	}
	assert.Equal(t, []string{"WordPress", "React"}, tech.All())
}

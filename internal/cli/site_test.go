package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bloghouse/tatame/internal/api"
)

func TestRenderSiteList(t *testing.T) {
	var buf bytes.Buffer
	renderSiteList(&buf, []api.Site{
		{ID: "s-1", Domain: "one.example.com", Status: "active"},
		{ID: "s-2", Domain: "two.example.com", Status: "provisioning"},
	})

	out := buf.String()
	assert.Contains(t, out, "one.example.com")
	assert.Contains(t, out, "two.example.com")
	assert.Contains(t, out, "2 sites")
}

func TestRenderSiteList_SingleSite(t *testing.T) {
	var buf bytes.Buffer
	renderSiteList(&buf, []api.Site{
		{ID: "s-1", Domain: "one.example.com", Status: "active"},
	})
	assert.Contains(t, buf.String(), "1 site\n")
}

func TestRenderSiteList_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderSiteList(&buf, nil)
	assert.Contains(t, buf.String(), "No sites yet")
}

func TestUpdatedFields(t *testing.T) {
	assert.Equal(t, "title", updatedFields("New Title", ""))
	assert.Equal(t, "status", updatedFields("", "active"))
	assert.Equal(t, "title, status", updatedFields("T", "active"))
	assert.Equal(t, "no changes", updatedFields("", ""))
}

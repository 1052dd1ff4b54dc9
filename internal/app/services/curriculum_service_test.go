package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emskillz/instructpoint/internal/app/models"
)

func strPtr(s string) *string { return &s }

func sampleCurriculum() []*models.CurriculumDocument {
	return []*models.CurriculumDocument{
		{ID: "root-bls", Name: "BLS Materials", Type: models.CurriculumFolder},
		{ID: "root-acls", Name: "ACLS Materials", Type: models.CurriculumFolder},
		{ID: "bls-manual", ParentID: strPtr("root-bls"), Name: "BLS Provider Manual", Type: models.CurriculumPDF},
		{ID: "bls-videos", ParentID: strPtr("root-bls"), Name: "Skills Videos", Type: models.CurriculumFolder},
		{ID: "bls-cpr-video", ParentID: strPtr("bls-videos"), Name: "Adult CPR Demonstration", Type: models.CurriculumVideo},
		{ID: "acls-algorithms", ParentID: strPtr("root-acls"), Name: "ACLS Algorithms", Type: models.CurriculumPDF},
	}
}

func TestBuildCurriculumTree_LinksChildrenToParents(t *testing.T) {
	roots := BuildCurriculumTree(sampleCurriculum())

	require.Len(t, roots, 2)
	assert.Equal(t, "root-bls", roots[0].ID)
	assert.Equal(t, "root-acls", roots[1].ID)

	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, "bls-manual", roots[0].Children[0].ID)

	videos := roots[0].Children[1]
	require.Len(t, videos.Children, 1)
	assert.Equal(t, "bls-cpr-video", videos.Children[0].ID)
}

func TestBuildCurriculumTree_OrphanedNodeBecomesRoot(t *testing.T) {
	flat := []*models.CurriculumDocument{
		{ID: "a", Name: "Orphan", Type: models.CurriculumPDF, ParentID: strPtr("missing")},
	}

	roots := BuildCurriculumTree(flat)
	require.Len(t, roots, 1)
	assert.Equal(t, "a", roots[0].ID)
}

func TestFilterCurriculumTree_MatchingFolderKeepsSubtree(t *testing.T) {
	roots := BuildCurriculumTree(sampleCurriculum())

	filtered := FilterCurriculumTree(roots, "bls materials")
	require.Len(t, filtered, 1)
	assert.Equal(t, "root-bls", filtered[0].ID)
	// The whole subtree survives when the folder itself matches
	require.Len(t, filtered[0].Children, 2)
}

func TestFilterCurriculumTree_DescendantMatchPrunesSiblings(t *testing.T) {
	roots := BuildCurriculumTree(sampleCurriculum())

	filtered := FilterCurriculumTree(roots, "cpr demonstration")
	require.Len(t, filtered, 1)
	assert.Equal(t, "root-bls", filtered[0].ID)
	require.Len(t, filtered[0].Children, 1)
	assert.Equal(t, "bls-videos", filtered[0].Children[0].ID)
	require.Len(t, filtered[0].Children[0].Children, 1)
	assert.Equal(t, "bls-cpr-video", filtered[0].Children[0].Children[0].ID)
}

func TestFilterCurriculumTree_CaseInsensitive(t *testing.T) {
	roots := BuildCurriculumTree(sampleCurriculum())

	filtered := FilterCurriculumTree(roots, "ACLS")
	require.Len(t, filtered, 1)
	assert.Equal(t, "root-acls", filtered[0].ID)
}

func TestFilterCurriculumTree_NoMatchYieldsEmpty(t *testing.T) {
	roots := BuildCurriculumTree(sampleCurriculum())

	filtered := FilterCurriculumTree(roots, "pediatric dosing chart")
	assert.Empty(t, filtered)
}

func TestFilterCurriculumTree_DoesNotMutateOriginal(t *testing.T) {
	roots := BuildCurriculumTree(sampleCurriculum())

	_ = FilterCurriculumTree(roots, "cpr demonstration")
	// Pruning returns copies; the source tree keeps its siblings
	require.Len(t, roots[0].Children, 2)
}

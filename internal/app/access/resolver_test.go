package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emskillz/instructpoint/internal/app/models"
)

func strPtr(s string) *string { return &s }

func instructor(id string, role models.RoleType, managedBy *string) *models.Instructor {
	return &models.Instructor{
		ID:                    id,
		Name:                  "Instructor " + id,
		InstructorID:          "CODE-" + id,
		Status:                models.StatusActive,
		Role:                  role,
		ManagedByInstructorID: managedBy,
	}
}

func user(id string, role models.RoleType) *models.User {
	return &models.User{ID: id, Email: id + "@example.com", RoleType: role, IsApproved: true, IsActive: true}
}

// testRoster builds the hierarchy used across the tests:
//
//	admin
//	└── tcc
//	    ├── tsc1
//	    │   ├── instr1
//	    │   └── instr2
//	    └── instr3
//	tsc2 (separate root)
//	└── instr4
func testRoster() []*models.Instructor {
	return []*models.Instructor{
		instructor("admin", models.RoleAdmin, nil),
		instructor("tcc", models.RoleTrainingCenterCoordinator, strPtr("admin")),
		instructor("tsc1", models.RoleTrainingSiteCoordinator, strPtr("tcc")),
		instructor("instr1", models.RoleInstructor, strPtr("tsc1")),
		instructor("instr2", models.RoleInstructor, strPtr("tsc1")),
		instructor("instr3", models.RoleInstructor, strPtr("tcc")),
		instructor("tsc2", models.RoleTrainingSiteCoordinator, nil),
		instructor("instr4", models.RoleInstructor, strPtr("tsc2")),
	}
}

func ids(records []*models.Instructor) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestVisibleInstructors_AdminSeesEverything(t *testing.T) {
	r := NewResolver()
	roster := testRoster()

	visible := r.VisibleInstructors(user("admin", models.RoleAdmin), roster)
	assert.Equal(t, ids(roster), ids(visible))

	// Holds for the empty roster as well
	assert.Empty(t, r.VisibleInstructors(user("admin", models.RoleAdmin), nil))
}

func TestVisibleInstructors_NilUser(t *testing.T) {
	r := NewResolver()
	assert.Empty(t, r.VisibleInstructors(nil, testRoster()))
}

func TestVisibleInstructors_TCCSeesTransitiveReports(t *testing.T) {
	r := NewResolver()
	roster := testRoster()

	visible := r.VisibleInstructors(user("tcc", models.RoleTrainingCenterCoordinator), roster)
	assert.ElementsMatch(t, []string{"tcc", "tsc1", "instr1", "instr2", "instr3"}, ids(visible))

	// The other site coordinator's subtree must stay invisible
	assert.NotContains(t, ids(visible), "tsc2")
	assert.NotContains(t, ids(visible), "instr4")
}

func TestVisibleInstructors_TSCSeesDirectReportsOnly(t *testing.T) {
	r := NewResolver()
	roster := testRoster()

	visible := r.VisibleInstructors(user("tsc1", models.RoleTrainingSiteCoordinator), roster)
	assert.ElementsMatch(t, []string{"tsc1", "instr1", "instr2"}, ids(visible))
}

func TestVisibleInstructors_InstructorSeesSelfOnly(t *testing.T) {
	r := NewResolver()
	roster := testRoster()

	visible := r.VisibleInstructors(user("instr1", models.RoleInstructor), roster)
	require.Len(t, visible, 1)
	assert.Equal(t, "instr1", visible[0].ID)
}

func TestVisibleInstructors_UnknownRole(t *testing.T) {
	r := NewResolver()
	assert.Empty(t, r.VisibleInstructors(user("x", models.RoleType("GHOST")), testRoster()))
}

func TestVisibleInstructors_MissingSelfRecordDegrades(t *testing.T) {
	r := NewResolver()
	roster := testRoster()

	// A site coordinator whose own record is absent still sees direct reports
	visible := r.VisibleInstructors(user("ghost-tsc", models.RoleTrainingSiteCoordinator), roster)
	assert.Empty(t, visible)

	withReport := append(roster, instructor("orphan", models.RoleInstructor, strPtr("ghost-tsc")))
	visible = r.VisibleInstructors(user("ghost-tsc", models.RoleTrainingSiteCoordinator), withReport)
	assert.ElementsMatch(t, []string{"orphan"}, ids(visible))
}

func TestVisibleInstructors_ResultIsSubsetAndDeduplicated(t *testing.T) {
	r := NewResolver()
	roster := testRoster()

	for _, u := range []*models.User{
		user("admin", models.RoleAdmin),
		user("tcc", models.RoleTrainingCenterCoordinator),
		user("tsc1", models.RoleTrainingSiteCoordinator),
		user("instr1", models.RoleInstructor),
	} {
		visible := r.VisibleInstructors(u, roster)
		seen := map[string]bool{}
		valid := map[string]bool{}
		for _, rec := range roster {
			valid[rec.ID] = true
		}
		for _, rec := range visible {
			assert.False(t, seen[rec.ID], "duplicate id %s for role %s", rec.ID, u.RoleType)
			assert.True(t, valid[rec.ID], "id %s not in roster for role %s", rec.ID, u.RoleType)
			seen[rec.ID] = true
		}
	}
}

func TestVisibleInstructors_Idempotent(t *testing.T) {
	r := NewResolver()
	roster := testRoster()
	u := user("tcc", models.RoleTrainingCenterCoordinator)

	first := r.VisibleInstructors(u, roster)
	second := r.VisibleInstructors(u, roster)
	assert.Equal(t, ids(first), ids(second))
}

func TestVisibleInstructors_CyclicGraphTerminates(t *testing.T) {
	r := NewResolver()
	cyclic := []*models.Instructor{
		instructor("a", models.RoleTrainingCenterCoordinator, strPtr("b")),
		instructor("b", models.RoleTrainingCenterCoordinator, strPtr("a")),
		instructor("c", models.RoleInstructor, strPtr("a")),
	}

	visible := r.VisibleInstructors(user("a", models.RoleTrainingCenterCoordinator), cyclic)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids(visible))
}

// bruteForceClosure computes supervisor-chain reachability the slow way for
// the differential test: repeated full scans until a fixpoint. A record is
// reachable when following ManagedByInstructorID edges upward from it
// eventually arrives at the root.
func bruteForceClosure(rootID string, roster []*models.Instructor) map[string]bool {
	reachable := map[string]bool{rootID: true}
	for changed := true; changed; {
		changed = false
		for _, rec := range roster {
			if reachable[rec.ID] || rec.ManagedByInstructorID == nil {
				continue
			}
			if reachable[*rec.ManagedByInstructorID] {
				reachable[rec.ID] = true
				changed = true
			}
		}
	}
	return reachable
}

func TestCanManage_MatchesReferenceClosure(t *testing.T) {
	r := NewResolver()
	roster := testRoster()

	tcc := user("tcc", models.RoleTrainingCenterCoordinator)
	closure := bruteForceClosure("tcc", roster)

	for _, target := range roster {
		want := closure[target.ID]
		got := r.CanManage(tcc, target, roster)
		assert.Equal(t, want, got, "target %s", target.ID)
	}
}

func TestCanManage_Admin(t *testing.T) {
	r := NewResolver()
	roster := testRoster()
	admin := user("admin", models.RoleAdmin)

	for _, target := range roster {
		assert.True(t, r.CanManage(admin, target, roster))
	}
}

func TestCanManage_SelfIsAllowed(t *testing.T) {
	r := NewResolver()
	roster := testRoster()

	// Self access is granted here for every role; delete-self suppression
	// happens in the instructor service.
	for _, rec := range roster {
		assert.True(t, r.CanManage(user(rec.ID, rec.Role), rec, roster))
	}
}

func TestCanManage_TSCDirectReportsOnly(t *testing.T) {
	r := NewResolver()
	roster := testRoster()
	tsc := user("tsc1", models.RoleTrainingSiteCoordinator)

	byID := map[string]*models.Instructor{}
	for _, rec := range roster {
		byID[rec.ID] = rec
	}

	assert.True(t, r.CanManage(tsc, byID["instr1"], roster))
	assert.True(t, r.CanManage(tsc, byID["instr2"], roster))
	assert.False(t, r.CanManage(tsc, byID["instr3"], roster))
	assert.False(t, r.CanManage(tsc, byID["instr4"], roster))
	assert.False(t, r.CanManage(tsc, byID["tcc"], roster))
}

func TestCanManage_InstructorManagesNothingButSelf(t *testing.T) {
	r := NewResolver()
	roster := testRoster()
	instr := user("instr1", models.RoleInstructor)

	for _, target := range roster {
		want := target.ID == "instr1"
		assert.Equal(t, want, r.CanManage(instr, target, roster), "target %s", target.ID)
	}
}

func TestCanManage_CyclicChainDenied(t *testing.T) {
	r := NewResolver()
	// Cycle that never reaches the coordinator: the walk must hit the
	// iteration cap and deny instead of spinning.
	cyclic := []*models.Instructor{
		instructor("tcc", models.RoleTrainingCenterCoordinator, nil),
		instructor("x", models.RoleInstructor, strPtr("y")),
		instructor("y", models.RoleInstructor, strPtr("x")),
	}
	tcc := user("tcc", models.RoleTrainingCenterCoordinator)

	assert.False(t, r.CanManage(tcc, cyclic[1], cyclic))
}

func TestCanManage_NilInputs(t *testing.T) {
	r := NewResolver()
	roster := testRoster()

	assert.False(t, r.CanManage(nil, roster[0], roster))
	assert.False(t, r.CanManage(user("tcc", models.RoleTrainingCenterCoordinator), nil, roster))
}

package access

import (
	"github.com/emskillz/instructpoint/internal/app/models"
)

// Resolver computes instructor visibility and management rights for a signed
// in user from an in-memory snapshot of the roster. It performs no I/O and
// never mutates its inputs; callers load the roster through the repository
// layer and pass it in.
//
// The supervisor hierarchy is a flat list with parent pointers
// (ManagedByInstructorID). Visibility for a center coordinator enumerates
// all transitive reports, so it is computed top-down with a BFS over an
// id index. A single-target management check walks bottom-up from the
// target toward the root, which is O(depth) instead of O(roster).
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// buildIndexes builds the id index and the reverse (supervisor -> direct
// reports) index once per call, so traversal never rescans the roster.
func buildIndexes(roster []*models.Instructor) (map[string]*models.Instructor, map[string][]*models.Instructor) {
	byID := make(map[string]*models.Instructor, len(roster))
	reports := make(map[string][]*models.Instructor, len(roster))
	for _, rec := range roster {
		byID[rec.ID] = rec
		if rec.ManagedByInstructorID != nil {
			supID := *rec.ManagedByInstructorID
			reports[supID] = append(reports[supID], rec)
		}
	}
	return byID, reports
}

// VisibleInstructors returns the subset of the roster the user may see,
// deduplicated and in roster order.
//
// Admin sees everything. A center coordinator sees their own record plus all
// transitive reports, expanding only through coordinator roles (plain
// instructors are included but never traversed, they cannot have
// subordinates). A site coordinator sees their own record plus direct
// reports only. An instructor sees only their own record. A nil user or an
// unknown role sees nothing.
//
// A missing self record degrades gracefully: the user still sees whatever
// part of the result does not depend on it.
func (r *Resolver) VisibleInstructors(user *models.User, roster []*models.Instructor) []*models.Instructor {
	if user == nil {
		return nil
	}

	switch user.RoleType {
	case models.RoleAdmin:
		out := make([]*models.Instructor, len(roster))
		copy(out, roster)
		return out

	case models.RoleTrainingCenterCoordinator:
		return collectInRosterOrder(roster, r.transitiveReports(user.ID, roster))

	case models.RoleTrainingSiteCoordinator:
		visible := map[string]bool{user.ID: true}
		for _, rec := range roster {
			if rec.ManagedByInstructorID != nil && *rec.ManagedByInstructorID == user.ID {
				visible[rec.ID] = true
			}
		}
		return collectInRosterOrder(roster, visible)

	case models.RoleInstructor:
		visible := map[string]bool{user.ID: true}
		return collectInRosterOrder(roster, visible)
	}

	return nil
}

// transitiveReports returns the id set of the supervisor's record plus every
// record reachable downward from it. The BFS expands a report's own reports
// only when the report holds a coordinator role. Each node is visited at
// most once, so a malformed (cyclic) supervisor graph cannot loop.
func (r *Resolver) transitiveReports(supervisorID string, roster []*models.Instructor) map[string]bool {
	_, reports := buildIndexes(roster)

	visible := map[string]bool{supervisorID: true}
	queue := []string{supervisorID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, report := range reports[current] {
			if visible[report.ID] {
				continue
			}
			visible[report.ID] = true
			if report.Role.IsCoordinator() {
				queue = append(queue, report.ID)
			}
		}
	}
	return visible
}

// collectInRosterOrder filters the roster down to the given id set,
// preserving roster order and guaranteeing the result is a deduplicated
// subset of the input.
func collectInRosterOrder(roster []*models.Instructor, ids map[string]bool) []*models.Instructor {
	var out []*models.Instructor
	seen := make(map[string]bool, len(ids))
	for _, rec := range roster {
		if ids[rec.ID] && !seen[rec.ID] {
			seen[rec.ID] = true
			out = append(out, rec)
		}
	}
	return out
}

// CanManage reports whether the user may edit or delete the target
// instructor record.
//
// Admin manages everything. Everyone manages their own record; rejecting
// deletion of one's own record is the service layer's responsibility, not
// this predicate's. A center coordinator manages a target when walking the
// supervisor chain upward from the target reaches the coordinator. A site
// coordinator manages direct reports only. Plain instructors manage nothing
// beyond self.
//
// The upward walk is capped at len(roster) steps so a malformed (cyclic)
// supervisor graph terminates; on hitting the cap the target is denied.
func (r *Resolver) CanManage(user *models.User, target *models.Instructor, roster []*models.Instructor) bool {
	if user == nil || target == nil {
		return false
	}

	if user.RoleType == models.RoleAdmin {
		return true
	}

	if user.ID == target.ID {
		return true
	}

	switch user.RoleType {
	case models.RoleTrainingCenterCoordinator:
		byID, _ := buildIndexes(roster)
		current := target
		for i := 0; i < len(roster); i++ {
			if current.ManagedByInstructorID == nil {
				return false
			}
			supID := *current.ManagedByInstructorID
			if supID == user.ID {
				return true
			}
			next, ok := byID[supID]
			if !ok {
				return false
			}
			current = next
		}
		return false

	case models.RoleTrainingSiteCoordinator:
		return target.ManagedByInstructorID != nil && *target.ManagedByInstructorID == user.ID
	}

	return false
}

package service

import (
	"context"

	"github.com/google/uuid"

	principalDomain "github.com/allisson/warden/internal/principal/domain"
)

// treeService implements TreeService with breadth-first traversal.
type treeService struct {
	repo     TreeRepository
	maxNodes int
}

// ChildrenOf returns the direct descendants of a principal.
func (t *treeService) ChildrenOf(
	ctx context.Context,
	principalID uuid.UUID,
) ([]*principalDomain.Principal, error) {
	return t.repo.ChildrenOf(ctx, principalID)
}

// SubtreeOf returns all transitive descendants of a principal via breadth-first
// traversal. The created-by relation is a forest by construction, but the walk
// keeps a visited set anyway so corrupted data cannot loop it, and it aborts
// with ErrSubtreeTooLarge once the configured node limit is exceeded.
func (t *treeService) SubtreeOf(
	ctx context.Context,
	principalID uuid.UUID,
) ([]*principalDomain.Principal, error) {
	visited := map[uuid.UUID]bool{principalID: true}
	queue := []uuid.UUID{principalID}

	var subtree []*principalDomain.Principal

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := t.repo.ChildrenOf(ctx, current)
		if err != nil {
			return nil, err
		}

		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true

			subtree = append(subtree, child)
			if t.maxNodes > 0 && len(subtree) > t.maxNodes {
				return nil, principalDomain.ErrSubtreeTooLarge
			}

			queue = append(queue, child.ID)
		}
	}

	return subtree, nil
}

// IsAncestorOf walks the created-by chain upward from descendant. Roots have
// no creator, so the walk terminates there; the visited set guards against
// corrupted data introducing a cycle.
func (t *treeService) IsAncestorOf(ctx context.Context, ancestorID, descendantID uuid.UUID) (bool, error) {
	if ancestorID == descendantID {
		return false, nil
	}

	visited := map[uuid.UUID]bool{}
	currentID := descendantID

	for {
		if visited[currentID] {
			return false, nil
		}
		visited[currentID] = true

		current, err := t.repo.Get(ctx, currentID)
		if err != nil {
			return false, err
		}

		if current.CreatedBy == nil {
			return false, nil
		}
		if *current.CreatedBy == ancestorID {
			return true, nil
		}

		currentID = *current.CreatedBy
	}
}

// NewTreeService creates a TreeService over the given repository. maxNodes
// bounds SubtreeOf traversals; zero means unbounded.
func NewTreeService(repo TreeRepository, maxNodes int) TreeService {
	return &treeService{
		repo:     repo,
		maxNodes: maxNodes,
	}
}

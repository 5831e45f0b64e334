package element

import (
	"fmt"
	"strconv"
	"strings"
)

// ReferencePrefix marks the boundary of a serialized ElementReference.
const ReferencePrefix = "@"

// gridSize is the pixel lattice the "pos" reference tier snaps to.
const gridSize = 50.0

// EncodeReference renders the stable string form of e's identity, trying
// each tier in order: identifier, structural (role-siblingIndex-parentRole),
// then grid-snapped position.
func EncodeReference(e Element) string {
	switch {
	case e.Identifier != "":
		return ReferencePrefix + "id:" + e.Identifier
	case e.SiblingIndex != nil && e.ParentRole != "":
		role := strings.TrimPrefix(e.Role, RolePrefix)
		parentRole := strings.TrimPrefix(e.ParentRole, RolePrefix)
		return ReferencePrefix + fmt.Sprintf("ref:%s-%d-%s", role, *e.SiblingIndex, parentRole)
	default:
		role := strings.TrimPrefix(e.Role, RolePrefix)
		gx := snapToGrid(e.Position.X)
		gy := snapToGrid(e.Position.Y)
		return ReferencePrefix + fmt.Sprintf("pos:%s-%d-%d", role, gx, gy)
	}
}

func snapToGrid(v float64) int64 {
	return int64(v/gridSize) * int64(gridSize)
}

// ReferenceTier identifies which encoding a decoded reference used.
type ReferenceTier string

const (
	TierID         ReferenceTier = "id"
	TierStructural ReferenceTier = "ref"
	TierPosition   ReferenceTier = "pos"
)

// DecodedReference is the result of parsing a serialized reference: the tier
// it used, the query it decodes to, and — for the position tier — the grid
// point callers may use to further filter by proximity.
type DecodedReference struct {
	Tier  ReferenceTier
	Query ElementQuery
	Grid  Point // only populated for TierPosition
}

// DecodeReference parses a serialized reference (beginning with
// ReferencePrefix) into an ElementQuery per the tier it used.
func DecodeReference(ref string) (DecodedReference, error) {
	if !strings.HasPrefix(ref, ReferencePrefix) {
		return DecodedReference{}, fmt.Errorf("reference %q missing %q prefix", ref, ReferencePrefix)
	}
	body := strings.TrimPrefix(ref, ReferencePrefix)

	switch {
	case strings.HasPrefix(body, "id:"):
		id := strings.TrimPrefix(body, "id:")
		if id == "" {
			return DecodedReference{}, fmt.Errorf("reference %q has empty identifier", ref)
		}
		return DecodedReference{
			Tier:  TierID,
			Query: ElementQuery{Identifier: id, Limit: 1},
		}, nil

	case strings.HasPrefix(body, "ref:"):
		rest := strings.TrimPrefix(body, "ref:")
		parts := strings.SplitN(rest, "-", 3)
		if len(parts) != 3 {
			return DecodedReference{}, fmt.Errorf("malformed structural reference %q", ref)
		}
		siblingIndex, err := strconv.Atoi(parts[1])
		if err != nil {
			return DecodedReference{}, fmt.Errorf("malformed structural reference %q: %w", ref, err)
		}
		return DecodedReference{
			Tier: TierStructural,
			Query: ElementQuery{
				Role:         parts[0],
				SiblingIndex: &siblingIndex,
				ParentRole:   parts[2],
				Limit:        10,
			},
		}, nil

	case strings.HasPrefix(body, "pos:"):
		rest := strings.TrimPrefix(body, "pos:")
		parts := strings.SplitN(rest, "-", 3)
		if len(parts) != 3 {
			return DecodedReference{}, fmt.Errorf("malformed position reference %q", ref)
		}
		gx, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return DecodedReference{}, fmt.Errorf("malformed position reference %q: %w", ref, err)
		}
		gy, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return DecodedReference{}, fmt.Errorf("malformed position reference %q: %w", ref, err)
		}
		return DecodedReference{
			Tier:  TierPosition,
			Query: ElementQuery{Role: parts[0]},
			Grid:  Point{X: float64(gx), Y: float64(gy)},
		}, nil

	default:
		return DecodedReference{}, fmt.Errorf("unrecognized reference form %q", ref)
	}
}

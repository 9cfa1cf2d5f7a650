package shape

import (
	"fmt"
	"slices"

	"scrawl/geom"
)

// Property keys accepted by SetProperty.
const (
	PropID                  = "id"
	PropType                = "type"
	PropName                = "name"
	PropParentID            = "parentId"
	PropChildIndex          = "childIndex"
	PropPoint               = "point"
	PropRotation            = "rotation"
	PropSize                = "size"
	PropPoints              = "points"
	PropStyle               = "style"
	PropAssetID             = "assetId"
	PropIsLocked            = "isLocked"
	PropIsHidden            = "isHidden"
	PropIsGenerated         = "isGenerated"
	PropIsAspectRatioLocked = "isAspectRatioLocked"
)

func invalid(key string, value any) error {
	return fmt.Errorf("%w: %s = %T", ErrInvalidValue, key, value)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// setProperty is the default SetProperty. It returns a new shape; replacing
// size or points stamps a new geometry revision.
func setProperty(u *Util, s *Shape, key string, value any) (*Shape, error) {
	next := s.Clone()
	switch key {
	case PropID, PropType:
		return nil, fmt.Errorf("%w: %s", ErrImmutableProperty, key)

	case PropName, PropParentID, PropAssetID:
		v, ok := value.(string)
		if !ok {
			return nil, invalid(key, value)
		}
		switch key {
		case PropName:
			next.Name = v
		case PropParentID:
			next.ParentID = v
		default:
			next.AssetID = v
		}

	case PropChildIndex, PropRotation:
		v, ok := toFloat(value)
		if !ok {
			return nil, invalid(key, value)
		}
		if key == PropChildIndex {
			next.ChildIndex = v
		} else {
			next.Rotation = v
		}

	case PropPoint:
		v, ok := value.(geom.Point)
		if !ok {
			return nil, invalid(key, value)
		}
		next.Point = geom.ToPrecision(v)

	case PropSize:
		if u.freehand {
			return nil, fmt.Errorf("%w: %s on %s", ErrUnknownProperty, key, u.Type)
		}
		v, ok := value.(geom.Point)
		if !ok || v.X < 0 || v.Y < 0 {
			return nil, invalid(key, value)
		}
		next.Size = v
		next.touch()

	case PropPoints:
		if !u.freehand {
			return nil, fmt.Errorf("%w: %s on %s", ErrUnknownProperty, key, u.Type)
		}
		v, ok := value.([]geom.Point)
		if !ok {
			return nil, invalid(key, value)
		}
		next.Points = slices.Clone(v)
		next.touch()

	case PropStyle:
		switch v := value.(type) {
		case *Style:
			if v == nil {
				return nil, invalid(key, value)
			}
			next.Style = u.normalizeStyle(v)
		case Style:
			next.Style = u.normalizeStyle(&v)
		default:
			return nil, invalid(key, value)
		}

	case PropIsLocked, PropIsHidden, PropIsGenerated, PropIsAspectRatioLocked:
		v, ok := value.(bool)
		if !ok {
			return nil, invalid(key, value)
		}
		switch key {
		case PropIsLocked:
			next.IsLocked = v
		case PropIsHidden:
			next.IsHidden = v
		case PropIsGenerated:
			next.IsGenerated = v
		default:
			next.IsAspectRatioLocked = v
		}

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, key)
	}
	return next, nil
}

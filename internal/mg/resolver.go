package mg

import (
	"fmt"
	"strings"

	"mediagrabber/internal/database/sqlc"
)

// Decision is the outcome of identity resolution for one candidate file.
type Decision int

const (
	// DecisionNew: no record matches; archive as new content.
	DecisionNew Decision = iota
	// DecisionExactDuplicate: name family, size and hash all match a record.
	DecisionExactDuplicate
	// DecisionNameCollision: the name is claimed by different content.
	DecisionNameCollision
	// DecisionDuplicateContent: the hash matches a record outside the name family.
	DecisionDuplicateContent
)

func (d Decision) String() string {
	switch d {
	case DecisionNew:
		return "new"
	case DecisionExactDuplicate:
		return "exact-duplicate"
	case DecisionNameCollision:
		return "name-collision"
	case DecisionDuplicateContent:
		return "duplicate-content"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Resolution carries the decision and, for duplicates, the matching record.
type Resolution struct {
	Decision Decision
	Match    *sqlc.File
}

// Resolver decides whether a candidate file is already archived. The cascade
// runs cheapest signal first: target name family, then (capture, type, size),
// then content hash. Every branch ends in a hash lookup because new content
// is recorded with its hash, which must stay unique.
type Resolver struct {
	index Index
	fsmgr FilesystemManager
}

func NewResolver(index Index, fsmgr FilesystemManager) *Resolver {
	return &Resolver{index: index, fsmgr: fsmgr}
}

// Resolve runs the cascade for f.
func (r *Resolver) Resolve(f *MediaFile) (*Resolution, error) {
	folder := FolderFor(f.CaptureTime())
	base := BaseNameFor(f.CaptureTime())
	ext := strings.ToLower(f.Type)

	claimed, err := r.index.FindByTargetName(folder, base, ext)
	if err != nil {
		return nil, fmt.Errorf("looking up target name: %w", err)
	}

	if claimed == nil {
		match, err := r.byHash(f)
		if err != nil {
			return nil, err
		}
		if match != nil {
			return &Resolution{Decision: DecisionDuplicateContent, Match: match}, nil
		}
		return &Resolution{Decision: DecisionNew}, nil
	}

	sized, err := r.index.FindByCaptureTypeSize(f.CaptureTime(), f.Type, f.Size)
	if err != nil {
		return nil, fmt.Errorf("looking up capture/type/size: %w", err)
	}

	match, err := r.byHash(f)
	if err != nil {
		return nil, err
	}
	switch {
	case match == nil:
		return &Resolution{Decision: DecisionNameCollision}, nil
	case sized != nil && match.TargetPath == folder && InFamily(match.TargetFilename, base, ext):
		return &Resolution{Decision: DecisionExactDuplicate, Match: match}, nil
	default:
		return &Resolution{Decision: DecisionDuplicateContent, Match: match}, nil
	}
}

func (r *Resolver) byHash(f *MediaFile) (*sqlc.File, error) {
	hash, err := f.Hash(r.fsmgr)
	if err != nil {
		return nil, err
	}
	match, err := r.index.FindByHash(hash)
	if err != nil {
		return nil, fmt.Errorf("looking up content hash: %w", err)
	}
	return match, nil
}

package repository

import (
	"errors"
	"fmt"
	"strings"

	"binregistry/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultClassifierRepository struct {
	db *gorm.DB
}

func NewClassifierRepository(db *gorm.DB) *DefaultClassifierRepository {
	return &DefaultClassifierRepository{db: db}
}

// Upsert creates the node if absent, otherwise updates name and parent only
// when they changed. The materialized path is recomputed together with any
// parent change, including the paths of all descendants, so reads never need
// recursive traversal. parentCode == "" means root.
//
// Re-parenting is taken at face value; there is no cycle validation.
func (r *DefaultClassifierRepository) Upsert(taxonomy entity.Taxonomy, code, name, parentCode string) (*entity.ClassifierNode, bool, error) {
	var parent *entity.ClassifierNode
	if parentCode != "" {
		var err error
		parent, err = r.FindByCode(taxonomy, parentCode)
		if err != nil {
			return nil, false, err
		}
		if parent == nil {
			return nil, false, fmt.Errorf("classifier upsert: parent %q not found in taxonomy %s", parentCode, taxonomy)
		}
	}

	node, err := r.FindByCode(taxonomy, code)
	if err != nil {
		return nil, false, err
	}

	if node == nil {
		node = &entity.ClassifierNode{
			Taxonomy: taxonomy,
			Code:     code,
			Name:     name,
			Path:     buildPath(parent, code),
		}
		if parent != nil {
			node.ParentID = &parent.ID
		}
		if err := r.db.Create(node).Error; err != nil {
			return nil, false, err
		}
		return node, true, nil
	}

	changed := false
	if name != "" && node.Name != name {
		node.Name = name
		changed = true
	}

	if parentChanged(node, parent) {
		oldPath := node.Path
		if parent != nil {
			node.ParentID = &parent.ID
		} else {
			node.ParentID = nil
		}
		node.Path = buildPath(parent, code)
		if err := r.rewriteSubtreePaths(taxonomy, node.ID, oldPath, node.Path); err != nil {
			return nil, false, err
		}
		changed = true
	}

	if changed {
		if err := r.db.Save(node).Error; err != nil {
			return nil, false, err
		}
	}
	return node, false, nil
}

// EnsureNode is the loader-facing variant of Upsert. Source snapshots carry
// classifier codes without any hierarchy information, so this creates an
// unseen code as a root and renames an existing node when the display name
// changed, but never moves an existing node: its parent and path, typically
// set by a reference-data import, stay exactly as stored.
func (r *DefaultClassifierRepository) EnsureNode(taxonomy entity.Taxonomy, code, name string) (*entity.ClassifierNode, error) {
	node, err := r.FindByCode(taxonomy, code)
	if err != nil {
		return nil, err
	}

	if node == nil {
		node = &entity.ClassifierNode{
			Taxonomy: taxonomy,
			Code:     code,
			Name:     name,
			Path:     buildPath(nil, code),
		}
		if err := r.db.Create(node).Error; err != nil {
			return nil, err
		}
		return node, nil
	}

	if name != "" && node.Name != name {
		node.Name = name
		if err := r.db.Save(node).Error; err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (r *DefaultClassifierRepository) FindByCode(taxonomy entity.Taxonomy, code string) (*entity.ClassifierNode, error) {
	var node entity.ClassifierNode
	err := r.db.
		Where("taxonomy = ? AND code = ?", taxonomy, code).
		First(&node).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &node, nil
}

func (r *DefaultClassifierRepository) FindByID(id uint) (*entity.ClassifierNode, error) {
	var node entity.ClassifierNode
	err := r.db.First(&node, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &node, nil
}

func (r *DefaultClassifierRepository) Roots(taxonomy entity.Taxonomy) ([]*entity.ClassifierNode, error) {
	var nodes []*entity.ClassifierNode
	err := r.db.
		Where("taxonomy = ? AND parent_id IS NULL", taxonomy).
		Order("name").
		Find(&nodes).Error
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (r *DefaultClassifierRepository) Children(parentID uint) ([]*entity.ClassifierNode, error) {
	var nodes []*entity.ClassifierNode
	err := r.db.
		Where("parent_id = ?", parentID).
		Order("name").
		Find(&nodes).Error
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// rewriteSubtreePaths replaces the old path prefix with the new one on every
// descendant of the re-parented node. Row counts are modest, so the rows are
// rewritten individually instead of via dialect-specific string SQL.
func (r *DefaultClassifierRepository) rewriteSubtreePaths(taxonomy entity.Taxonomy, nodeID uint, oldPath, newPath string) error {
	var descendants []*entity.ClassifierNode
	err := r.db.
		Where("taxonomy = ? AND path LIKE ? AND id <> ?", taxonomy, oldPath+"%", nodeID).
		Find(&descendants).Error
	if err != nil {
		return err
	}

	for _, d := range descendants {
		d.Path = newPath + strings.TrimPrefix(d.Path, oldPath)
		if err := r.db.Save(d).Error; err != nil {
			return err
		}
	}
	return nil
}

func buildPath(parent *entity.ClassifierNode, code string) string {
	if parent == nil {
		return code + entity.PathSeparator
	}
	return parent.Path + code + entity.PathSeparator
}

func parentChanged(node *entity.ClassifierNode, parent *entity.ClassifierNode) bool {
	if node.ParentID == nil {
		return parent != nil
	}
	if parent == nil {
		return true
	}
	return *node.ParentID != parent.ID
}

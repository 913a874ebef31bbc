package sync

import (
	"techstore/internal/logger"
	"techstore/internal/models"
	"techstore/internal/services/woocommerce"

	"gorm.io/gorm"
)

// CategoryReconciler upserts remote categories into the local store,
// translating remote parent references to local ids.
type CategoryReconciler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewCategoryReconciler(db *gorm.DB, logger *logger.Logger) *CategoryReconciler {
	return &CategoryReconciler{db: db, logger: logger}
}

// Reconcile runs the two-pass upsert: roots first with parent forced to
// null, then children in input order with parents resolved through the
// remote-id map. Each upsert is independent; a failure on one category
// never aborts the rest.
func (r *CategoryReconciler) Reconcile(categories []woocommerce.Category) (int, []models.SyncError) {
	roots := make([]woocommerce.Category, 0, len(categories))
	children := make([]woocommerce.Category, 0, len(categories))
	for _, cat := range categories {
		if cat.Parent == 0 {
			roots = append(roots, cat)
		} else {
			children = append(children, cat)
		}
	}

	// Remote id to local id, filled by the root pass and extended lazily
	// from the store for parents synced in an earlier run (or fetched on
	// an earlier page).
	localIDs := make(map[int64]int64, len(categories))

	synced := 0
	var errs []models.SyncError

	for _, cat := range roots {
		localID, err := r.upsert(cat, nil)
		if err != nil {
			r.logger.Error("Error syncing category %d (%s): %v", cat.ID, cat.Name, err)
			errs = append(errs, models.SyncError{Type: "category", RemoteID: cat.ID, Name: cat.Name, Error: err.Error()})
			continue
		}
		localIDs[cat.ID] = localID
		synced++
	}

	// Root pass completes before any child is touched, so a child whose
	// parent arrived in the same batch always resolves through the map.
	for _, cat := range children {
		parentID := r.resolveParent(cat.Parent, localIDs)
		if parentID == nil {
			r.logger.Warn("Category %d (%s): parent %d not found, storing as root", cat.ID, cat.Name, cat.Parent)
		}

		localID, err := r.upsert(cat, parentID)
		if err != nil {
			r.logger.Error("Error syncing category %d (%s, parent %d): %v", cat.ID, cat.Name, cat.Parent, err)
			errs = append(errs, models.SyncError{Type: "category", RemoteID: cat.ID, Name: cat.Name, Error: err.Error()})
			continue
		}
		// Keep the mapping for grandchildren later in the batch.
		localIDs[cat.ID] = localID
		synced++
	}

	return synced, errs
}

// resolveParent maps a remote parent id to a local id: first through the
// in-run map, then the store (covers parents from earlier runs), else
// nil: the orphan is promoted to root rather than dropped.
func (r *CategoryReconciler) resolveParent(remoteParent int64, localIDs map[int64]int64) *int64 {
	if id, ok := localIDs[remoteParent]; ok {
		return &id
	}

	var parent models.Category
	if err := r.db.Where("woo_commerce_id = ?", remoteParent).First(&parent).Error; err == nil {
		localIDs[remoteParent] = parent.ID
		return &parent.ID
	}

	return nil
}

// upsert inserts or fully overwrites the category keyed by remote id,
// and returns the local id. Parent is overwritten, not merged, so a
// category that changes parent between runs is handled naturally.
func (r *CategoryReconciler) upsert(cat woocommerce.Category, parentID *int64) (int64, error) {
	var imageURL *string
	if cat.Image != nil && cat.Image.Src != "" {
		imageURL = &cat.Image.Src
	}
	description := cat.Description

	var existing models.Category
	err := r.db.Where("woo_commerce_id = ?", cat.ID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		record := models.Category{
			WooCommerceID: &cat.ID,
			Name:          cat.Name,
			Slug:          cat.Slug,
			Description:   &description,
			ParentID:      parentID,
			ImageURL:      imageURL,
			Count:         cat.Count,
		}
		if err := r.db.Create(&record).Error; err != nil {
			return 0, err
		}
		return record.ID, nil
	}
	if err != nil {
		return 0, err
	}

	updates := map[string]interface{}{
		"name":        cat.Name,
		"slug":        cat.Slug,
		"description": description,
		"parent_id":   parentID,
		"image_url":   imageURL,
		"count":       cat.Count,
	}
	if err := r.db.Model(&existing).Updates(updates).Error; err != nil {
		return 0, err
	}
	return existing.ID, nil
}

package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vivicarm/AppIventario/internal/blobstore"
	"github.com/vivicarm/AppIventario/internal/docstore"
	"github.com/vivicarm/AppIventario/internal/domain"
	"github.com/vivicarm/AppIventario/internal/viewstate"
)

type CategoryManager struct {
	docs  docstore.Store
	blobs blobstore.Store
	list  *viewstate.List[domain.Category]
	status

	// now is swappable so tests can pin blob names.
	now func() time.Time
}

func NewCategoryManager(docs docstore.Store, blobs blobstore.Store) *CategoryManager {
	return &CategoryManager{
		docs:  docs,
		blobs: blobs,
		list: viewstate.NewList(func(c domain.Category) string {
			return c.ID
		}),
		now: time.Now,
	}
}

func (m *CategoryManager) Categories() []domain.Category {
	return m.list.Items()
}

func (m *CategoryManager) Subscribe(fn func([]domain.Category)) {
	m.list.Subscribe(fn)
}

func (m *CategoryManager) Search(query string) []domain.Category {
	query = strings.ToLower(strings.TrimSpace(query))
	items := m.list.Items()
	if query == "" {
		return items
	}
	matched := items[:0]
	for _, c := range items {
		if strings.Contains(strings.ToLower(c.Name), query) {
			matched = append(matched, c)
		}
	}
	return matched
}

func (m *CategoryManager) Refresh(ctx context.Context) error {
	raw, err := m.docs.List(ctx, domain.CollectionCategories)
	if err != nil {
		m.fail(err)
		return err
	}
	categories, err := docstore.DecodeAll[domain.Category](raw)
	if err != nil {
		m.fail(err)
		return err
	}
	m.list.Replace(categories)
	return nil
}

// Create requires a name and an image; both are validated before any remote
// call. The image is uploaded first, then the document written under a
// client-generated UUID.
func (m *CategoryManager) Create(ctx context.Context, in domain.CategoryInput, image []byte) (domain.Category, error) {
	if err := in.Validate(); err != nil {
		m.fail(err)
		return domain.Category{}, err
	}
	if len(image) == 0 {
		err := fmt.Errorf("%w: debes seleccionar una imagen antes de guardar", domain.ErrValidation)
		m.fail(err)
		return domain.Category{}, err
	}

	placeholder := domain.Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    PlaceholderImage,
	}

	mut := m.list.StageInsert(placeholder)

	url, err := m.blobs.Upload(ctx, m.imageObjectName(), image)
	if err != nil {
		mut.Revert()
		m.fail(err)
		return domain.Category{}, err
	}

	final := placeholder
	final.ImageURL = url
	if err := m.docs.Create(ctx, domain.CollectionCategories, final.ID, final); err != nil {
		m.deleteBlob(ctx, url)
		mut.Revert()
		m.fail(err)
		return domain.Category{}, err
	}

	mut.ConfirmWith(final)
	m.set("Categoría guardada correctamente.")
	return final, nil
}

// Update replaces the category document; a new image deletes the previous
// blob best-effort before the upload. The prior list is snapshotted in full.
func (m *CategoryManager) Update(ctx context.Context, c domain.Category, newImage []byte) (domain.Category, error) {
	in := domain.CategoryInput{Name: c.Name, Description: c.Description}
	if err := in.Validate(); err != nil {
		m.fail(err)
		return domain.Category{}, err
	}

	prior, exists := m.list.Find(c.ID)

	staged := c
	if len(newImage) > 0 {
		staged.ImageURL = PlaceholderImage
	}
	mut := m.list.StageUpdate(staged)

	final := staged
	if len(newImage) > 0 {
		if exists && prior.ImageURL != "" {
			m.deleteBlob(ctx, prior.ImageURL)
		}
		url, err := m.blobs.Upload(ctx, m.imageObjectName(), newImage)
		if err != nil {
			mut.Revert()
			m.fail(err)
			return domain.Category{}, err
		}
		final.ImageURL = url
	}

	if err := m.docs.Update(ctx, domain.CollectionCategories, final.ID, final); err != nil {
		if len(newImage) > 0 {
			m.deleteBlob(ctx, final.ImageURL)
		}
		mut.Revert()
		m.fail(err)
		return domain.Category{}, err
	}

	mut.ConfirmWith(final)
	m.set("Categoría actualizada correctamente.")
	return final, nil
}

func (m *CategoryManager) Delete(ctx context.Context, categoryID string) error {
	prior, exists := m.list.Find(categoryID)

	mut := m.list.StageRemove(categoryID)
	if err := m.docs.Delete(ctx, domain.CollectionCategories, categoryID); err != nil {
		mut.Revert()
		m.fail(err)
		return err
	}

	if exists && prior.ImageURL != "" {
		m.deleteBlob(ctx, prior.ImageURL)
	}
	mut.Confirm()
	m.set("Categoría eliminada.")
	return nil
}

func (m *CategoryManager) imageObjectName() string {
	return blobstore.FormatObjectName(domain.CollectionCategories,
		fmt.Sprintf("%d", m.now().UnixMilli()))
}

func (m *CategoryManager) deleteBlob(ctx context.Context, url string) {
	if url == "" || url == PlaceholderImage {
		return
	}
	if err := m.blobs.Delete(ctx, url); err != nil {
		logBlobDeleteFailure(url, err)
	}
}

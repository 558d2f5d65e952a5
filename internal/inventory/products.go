// Package inventory holds the list-backed view-state managers for products
// and categories. Create, update and delete are applied optimistically: the
// in-memory list changes first, the remote write follows, and a failure
// reverts to the pre-mutation view and surfaces a status message.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vivicarm/AppIventario/internal/blobstore"
	"github.com/vivicarm/AppIventario/internal/docstore"
	"github.com/vivicarm/AppIventario/internal/domain"
	"github.com/vivicarm/AppIventario/internal/viewstate"
)

// PlaceholderImage marks an image slot whose upload is still in flight.
const PlaceholderImage = "loading"

type ProductManager struct {
	docs  docstore.Store
	blobs blobstore.Store
	list  *viewstate.List[domain.Product]
	status
}

func NewProductManager(docs docstore.Store, blobs blobstore.Store) *ProductManager {
	return &ProductManager{
		docs:  docs,
		blobs: blobs,
		list: viewstate.NewList(func(p domain.Product) string {
			return p.ID
		}),
	}
}

func (m *ProductManager) Products() []domain.Product {
	return m.list.Items()
}

func (m *ProductManager) Subscribe(fn func([]domain.Product)) {
	m.list.Subscribe(fn)
}

// Search filters the current list by name, case-insensitive.
func (m *ProductManager) Search(query string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	items := m.list.Items()
	if query == "" {
		return items
	}
	matched := items[:0]
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Name), query) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Refresh replaces the list with the backend's view of the collection.
func (m *ProductManager) Refresh(ctx context.Context) error {
	raw, err := m.docs.List(ctx, domain.CollectionProducts)
	if err != nil {
		m.fail(err)
		return err
	}
	products, err := docstore.DecodeAll[domain.Product](raw)
	if err != nil {
		m.fail(err)
		return err
	}
	m.list.Replace(products)
	return nil
}

// Create inserts an optimistic placeholder with a client-generated UUID,
// uploads the images, writes the document, then swaps in the finalized
// record. Any failure reverts the insert.
func (m *ProductManager) Create(ctx context.Context, in domain.ProductInput, images [][]byte) (domain.Product, error) {
	if err := in.Validate(); err != nil {
		m.fail(err)
		return domain.Product{}, err
	}

	placeholder := domain.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		CostPrice:   in.CostPrice,
		SalePrice:   in.SalePrice,
		PromoPrice:  in.PromoPrice,
		Description: strings.TrimSpace(in.Description),
		Stock:       in.Stock,
		Images:      placeholderImages(len(images)),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		CategoryID:  in.CategoryID,
	}

	mut := m.list.StageInsert(placeholder)

	urls, err := m.uploadProductImages(ctx, images)
	if err != nil {
		m.deleteBlobs(ctx, urls)
		mut.Revert()
		m.fail(err)
		return domain.Product{}, err
	}

	final := placeholder
	final.Images = urls
	if err := m.docs.Create(ctx, domain.CollectionProducts, final.ID, final); err != nil {
		m.deleteBlobs(ctx, urls)
		mut.Revert()
		m.fail(err)
		return domain.Product{}, err
	}

	mut.ConfirmWith(final)
	m.set("Producto agregado correctamente.")
	return final, nil
}

// Update writes a modified product. newImages, when non-empty, replace the
// product's image set: old blobs are deleted best-effort and new ones
// uploaded while the list shows placeholder markers. The whole prior list is
// snapshotted, so a failure restores the exact pre-mutation view.
func (m *ProductManager) Update(ctx context.Context, p domain.Product, newImages [][]byte) (domain.Product, error) {
	in := domain.ProductInput{
		Name:       p.Name,
		CostPrice:  p.CostPrice,
		SalePrice:  p.SalePrice,
		PromoPrice: p.PromoPrice,
		Stock:      p.Stock,
	}
	if err := in.Validate(); err != nil {
		m.fail(err)
		return domain.Product{}, err
	}

	prior, exists := m.list.Find(p.ID)

	staged := p
	if len(newImages) > 0 {
		staged.Images = placeholderImages(len(newImages))
	}
	mut := m.list.StageUpdate(staged)

	final := staged
	if len(newImages) > 0 {
		urls, err := m.uploadProductImages(ctx, newImages)
		if err != nil {
			m.deleteBlobs(ctx, urls)
			mut.Revert()
			m.fail(err)
			return domain.Product{}, err
		}
		final.Images = urls
	}

	if err := m.docs.Update(ctx, domain.CollectionProducts, final.ID, final); err != nil {
		if len(newImages) > 0 {
			m.deleteBlobs(ctx, final.Images)
		}
		mut.Revert()
		m.fail(err)
		return domain.Product{}, err
	}

	if exists && len(newImages) > 0 {
		m.deleteBlobs(ctx, prior.Images)
	}

	mut.ConfirmWith(final)
	m.set("Producto actualizado correctamente.")
	return final, nil
}

// Delete removes the product optimistically; on success its image blobs are
// cleaned up best-effort.
func (m *ProductManager) Delete(ctx context.Context, productID string) error {
	prior, exists := m.list.Find(productID)

	mut := m.list.StageRemove(productID)
	if err := m.docs.Delete(ctx, domain.CollectionProducts, productID); err != nil {
		mut.Revert()
		m.fail(err)
		return err
	}

	if exists {
		m.deleteBlobs(ctx, prior.Images)
	}
	mut.Confirm()
	m.set("Producto eliminado.")
	return nil
}

func (m *ProductManager) uploadProductImages(ctx context.Context, images [][]byte) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		name := blobstore.FormatObjectName(domain.CollectionProducts, uuid.NewString())
		url, err := m.blobs.Upload(ctx, name, img)
		if err != nil {
			return urls, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (m *ProductManager) deleteBlobs(ctx context.Context, urls []string) {
	for _, url := range urls {
		if url == "" || url == PlaceholderImage {
			continue
		}
		if err := m.blobs.Delete(ctx, url); err != nil {
			logBlobDeleteFailure(url, err)
		}
	}
}

func placeholderImages(n int) []string {
	if n == 0 {
		return nil
	}
	images := make([]string, n)
	for i := range images {
		images[i] = PlaceholderImage
	}
	return images
}

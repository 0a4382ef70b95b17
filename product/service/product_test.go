package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fauzankm/storefront/internal/config"
	"github.com/fauzankm/storefront/internal/kv"
)

const productBody = `{"id":1,"title":"Shirt","price":20,"description":"a shirt","image":"https://example.com/shirt.png","category":"clothing"}`

const backupProductBody = `{"id":1,"title":"Backup Shirt","price":18,"description":"a shirt","image":"https://example.com/shirt.png","category":"clothing"}`

func catalogService(t *testing.T, primary, backup http.HandlerFunc) (ProductService, *kv.MemoryStore) {
	t.Helper()

	primarySrv := httptest.NewServer(primary)
	t.Cleanup(primarySrv.Close)
	backupSrv := httptest.NewServer(backup)
	t.Cleanup(backupSrv.Close)

	store := kv.NewMemoryStore()
	svc := NewProductService(primarySrv.Client(), store, config.Catalog{
		PrimaryBaseUrl: primarySrv.URL,
		BackupBaseUrl:  backupSrv.URL,
		CacheTTL:       time.Hour,
	})
	return svc, store
}

func serveJSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestFindProductById(t *testing.T) {
	tests := []struct {
		name    string
		primary http.HandlerFunc
		backup  http.HandlerFunc
		asserts func(t *testing.T, svc ProductService)
	}{
		{
			name:    "given healthy primary should return its product without touching backup",
			primary: serveJSON(http.StatusOK, productBody),
			backup: func(w http.ResponseWriter, r *http.Request) {
				t.Error("backup should not be called when primary succeeds")
			},
			asserts: func(t *testing.T, svc ProductService) {
				product, err := svc.FindProductById(context.Background(), 1)
				assert.NoError(t, err)
				assert.Equal(t, "Shirt", product.Title)
			},
		},
		{
			name:    "given failing primary should return the backup product",
			primary: serveJSON(http.StatusInternalServerError, ""),
			backup:  serveJSON(http.StatusOK, backupProductBody),
			asserts: func(t *testing.T, svc ProductService) {
				product, err := svc.FindProductById(context.Background(), 1)
				assert.NoError(t, err)
				assert.Equal(t, "Backup Shirt", product.Title)
			},
		},
		{
			name:    "given primary returning invalid shape should fall back to backup",
			primary: serveJSON(http.StatusOK, `{"id":0,"title":""}`),
			backup:  serveJSON(http.StatusOK, backupProductBody),
			asserts: func(t *testing.T, svc ProductService) {
				product, err := svc.FindProductById(context.Background(), 1)
				assert.NoError(t, err)
				assert.Equal(t, "Backup Shirt", product.Title)
			},
		},
		{
			name:    "given both endpoints failing should return a single merged error",
			primary: serveJSON(http.StatusInternalServerError, ""),
			backup:  serveJSON(http.StatusNotFound, ""),
			asserts: func(t *testing.T, svc ProductService) {
				_, err := svc.FindProductById(context.Background(), 1)
				assert.Error(t, err)
				assert.ErrorContains(t, err, "both primary and backup")
				assert.ErrorContains(t, err, "status=500")
				assert.ErrorContains(t, err, "status=404")
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc, _ := catalogService(t, test.primary, test.backup)
			test.asserts(t, svc)
		})
	}
}

func TestFindProductByIdCaching(t *testing.T) {
	primaryCalls := 0
	svc, store := catalogService(t,
		func(w http.ResponseWriter, r *http.Request) {
			primaryCalls++
			w.Write([]byte(productBody))
		},
		serveJSON(http.StatusInternalServerError, ""),
	)

	first, err := svc.FindProductById(context.Background(), 1)
	assert.NoError(t, err)
	second, err := svc.FindProductById(context.Background(), 1)
	assert.NoError(t, err)

	assert.Equal(t, 1, primaryCalls)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, 1, store.Len())
}

func TestGetProducts(t *testing.T) {
	calls := 0
	svc, _ := catalogService(t,
		func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Write([]byte("[" + productBody + "]"))
		},
		serveJSON(http.StatusInternalServerError, ""),
	)

	products, err := svc.GetProducts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, products, 1)

	products, err = svc.GetProducts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, calls)
}

func TestGetProductsUpstreamFailure(t *testing.T) {
	svc, store := catalogService(t,
		serveJSON(http.StatusBadGateway, ""),
		serveJSON(http.StatusInternalServerError, ""),
	)

	_, err := svc.GetProducts(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestGetCategories(t *testing.T) {
	svc, _ := catalogService(t,
		serveJSON(http.StatusOK, `["clothing","electronics"]`),
		serveJSON(http.StatusInternalServerError, ""),
	)

	categories, err := svc.GetCategories(context.Background())

	assert.NoError(t, err)
	assert.EqualValues(t, []string{"clothing", "electronics"}, categories)
}

func TestGetProductsByCategory(t *testing.T) {
	var requestedPath string
	svc, _ := catalogService(t,
		func(w http.ResponseWriter, r *http.Request) {
			requestedPath = r.URL.Path
			w.Write([]byte("[" + productBody + "]"))
		},
		serveJSON(http.StatusInternalServerError, ""),
	)

	products, err := svc.GetProductsByCategory(context.Background(), "clothing")

	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "/products/category/clothing", requestedPath)
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fauzankm/storefront/internal/config"
	inErrors "github.com/fauzankm/storefront/internal/errors"
	inHttp "github.com/fauzankm/storefront/internal/http"
	"github.com/fauzankm/storefront/internal/kv"
	"github.com/fauzankm/storefront/internal/log"
	"github.com/fauzankm/storefront/internal/otel"
	"github.com/fauzankm/storefront/product/response"
)

const (
	cacheKeyProducts         = "products"
	cacheKeyCategories       = "products_categories"
	cacheKeyProductsCategory = "products_category_%s"
	cacheKeyProduct          = "products_%d"
)

type ProductService struct {
	client *http.Client
	store  kv.Store
	config config.Catalog
}

func NewProductService(
	client *http.Client,
	store kv.Store,
	config config.Catalog,
) ProductService {
	return ProductService{client: client, store: store, config: config}
}

func (svc ProductService) get(c context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(c, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed creating request to url=%s with error=%w", url, err)
	}
	req.Header.Add(inHttp.KeyHeaderRequestID, log.RequestIDFromContext(c))
	resp, err := svc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed requesting url=%s with error=%w", url, err)
	}
	return resp, nil
}

func (svc ProductService) GetProducts(c context.Context) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService GetProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService GetProducts").
		Str(log.KeyCacheKey, cacheKeyProducts).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding products in cache").Logger()
	logger.Trace().Msg("finding products in cache")
	cached, err := svc.store.Get(c, cacheKeyProducts)
	if err == nil {
		products := []response.Product{}
		if err := json.Unmarshal(cached, &products); err == nil {
			logger.Info().Msg("found products in cache")
			return products, nil
		}
		logger.Info().Msg("failed unmarshaling cached products, refetching")
	}

	logger = logger.With().Str(log.KeyProcess, "fetching products").Logger()
	logger.Info().Msg("fetching products")
	resp, err := svc.get(c, svc.config.PrimaryBaseUrl+"/products")
	if err != nil {
		err = fmt.Errorf("failed fetching products with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = fmt.Errorf("failed fetching products with status=%d", resp.StatusCode)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	products := []response.Product{}
	err = json.NewDecoder(resp.Body).Decode(&products)
	if err != nil {
		err = fmt.Errorf("failed decoding products with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("fetched %d products", len(products))

	svc.cache(c, cacheKeyProducts, products)
	return products, nil
}

func (svc ProductService) GetCategories(c context.Context) ([]string, error) {
	c, span := otel.Tracer.Start(c, "ProductService GetCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService GetCategories").
		Str(log.KeyCacheKey, cacheKeyCategories).
		Logger()

	cached, err := svc.store.Get(c, cacheKeyCategories)
	if err == nil {
		categories := []string{}
		if err := json.Unmarshal(cached, &categories); err == nil {
			logger.Info().Msg("found categories in cache")
			return categories, nil
		}
	}

	logger = logger.With().Str(log.KeyProcess, "fetching categories").Logger()
	logger.Info().Msg("fetching categories")
	resp, err := svc.get(c, svc.config.PrimaryBaseUrl+"/products/categories")
	if err != nil {
		err = fmt.Errorf("failed fetching categories with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = fmt.Errorf("failed fetching categories with status=%d", resp.StatusCode)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	categories := []string{}
	err = json.NewDecoder(resp.Body).Decode(&categories)
	if err != nil {
		err = fmt.Errorf("failed decoding categories with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("fetched %d categories", len(categories))

	svc.cache(c, cacheKeyCategories, categories)
	return categories, nil
}

func (svc ProductService) GetProductsByCategory(
	c context.Context,
	category string,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService GetProductsByCategory")
	defer span.End()

	cacheKey := fmt.Sprintf(cacheKeyProductsCategory, category)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService GetProductsByCategory").
		Str(log.KeyCategory, category).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	cached, err := svc.store.Get(c, cacheKey)
	if err == nil {
		products := []response.Product{}
		if err := json.Unmarshal(cached, &products); err == nil {
			logger.Info().Msg("found products in cache")
			return products, nil
		}
	}

	logger = logger.With().Str(log.KeyProcess, "fetching products by category").Logger()
	logger.Info().Msg("fetching products by category")
	resp, err := svc.get(c, svc.config.PrimaryBaseUrl+"/products/category/"+category)
	if err != nil {
		err = fmt.Errorf("failed fetching products by category=%s with error=%w", category, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = fmt.Errorf(
			"failed fetching products by category=%s with status=%d",
			category,
			resp.StatusCode,
		)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	products := []response.Product{}
	err = json.NewDecoder(resp.Body).Decode(&products)
	if err != nil {
		err = fmt.Errorf("failed decoding products with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("fetched %d products", len(products))

	svc.cache(c, cacheKey, products)
	return products, nil
}

// FindProductById resolves a product from the primary catalog API, falling
// back to the backup API on any failure. Two attempts maximum; both causes are
// merged into a single failure for the caller.
func (svc ProductService) FindProductById(
	c context.Context,
	id int64,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	cacheKey := fmt.Sprintf(cacheKeyProduct, id)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductById").
		Int64(log.KeyProductID, id).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	cached, err := svc.store.Get(c, cacheKey)
	if err == nil {
		product := response.Product{}
		if err := json.Unmarshal(cached, &product); err == nil {
			logger.Info().Msg("found product in cache")
			return product, nil
		}
	}

	logger = logger.With().Str(log.KeyProcess, "fetching product from primary").Logger()
	logger.Info().Msg("fetching product from primary")
	product, primaryErr := svc.fetchProduct(c, svc.config.PrimaryBaseUrl, id)
	if primaryErr == nil {
		logger.Info().Msg("fetched product from primary")
		svc.cache(c, cacheKey, product)
		return product, nil
	}
	logger.Info().Err(primaryErr).Msg("primary fetch failed, trying backup")

	logger = logger.With().Str(log.KeyProcess, "fetching product from backup").Logger()
	logger.Info().Msg("fetching product from backup")
	product, backupErr := svc.fetchProduct(c, svc.config.BackupBaseUrl, id)
	if backupErr == nil {
		logger.Info().Msg("fetched product from backup")
		svc.cache(c, cacheKey, product)
		return product, nil
	}

	err = fmt.Errorf(
		"failed fetching product from both primary and backup APIs with error=%w",
		errors.Join(primaryErr, backupErr),
	)
	otel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	return response.Product{}, err
}

func (svc ProductService) fetchProduct(
	c context.Context,
	baseUrl string,
	id int64,
) (response.Product, error) {
	resp, err := svc.get(c, fmt.Sprintf("%s/products/%d", baseUrl, id))
	if err != nil {
		return response.Product{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return response.Product{}, fmt.Errorf(
			"failed fetching productId=%d with status=%d",
			id,
			resp.StatusCode,
		)
	}

	product := response.Product{}
	err = json.NewDecoder(resp.Body).Decode(&product)
	if err != nil {
		return response.Product{}, fmt.Errorf("failed decoding product with error=%w", err)
	}
	if product.ID == 0 || product.Title == "" {
		return response.Product{}, fmt.Errorf(
			"invalid product data structure for productId=%d: %w",
			id,
			inErrors.ErrProductNotFound,
		)
	}
	return product, nil
}

// cache failures are logged and swallowed: the catalog response is already in
// hand and a cold cache only costs the next caller a refetch.
func (svc ProductService) cache(c context.Context, key string, value interface{}) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService cache").
		Str(log.KeyCacheKey, key).
		Logger()

	encoded, err := json.Marshal(value)
	if err != nil {
		logger.Error().Err(err).Msgf("failed marshaling cache entry with error=%s", err.Error())
		return
	}
	if err := svc.store.Set(c, key, encoded, svc.config.CacheTTL); err != nil {
		logger.Error().Err(err).Msgf("failed inserting cache entry with error=%s", err.Error())
	}
}

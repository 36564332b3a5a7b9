package usecase

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"

	"github.com/yaadplay/storefront/internal/models"
	"github.com/yaadplay/storefront/internal/repo/docstore"
)

// ErrMalformedDocument marks a stored record that cannot become a catalog product.
var ErrMalformedDocument = errors.New("malformed product document")

const maxRating = 5.0

// identifier keys in priority order
var documentIDKeys = []string{"$id", "_id", "id"}

// TransformDocument normalizes one stored record into the canonical product shape.
// Absent optional fields get their defaults: rating 0, inStock true, featured false,
// images derived from image.
func TransformDocument(doc docstore.Document) (models.Product, error) {
	id := documentID(doc)
	if id == "" {
		return models.Product{}, fmt.Errorf("%w: missing id", ErrMalformedDocument)
	}

	name := strings.TrimSpace(cast.ToString(doc["name"]))
	if name == "" {
		return models.Product{}, fmt.Errorf("%w: document %s: missing name", ErrMalformedDocument, id)
	}

	price, err := documentPrice(doc["price"])
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: document %s: %w", ErrMalformedDocument, id, err)
	}

	specs, err := documentSpecifications(doc["specifications"])
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: document %s: %w", ErrMalformedDocument, id, err)
	}

	image := cast.ToString(doc["image"])
	return models.Product{
		ID:             id,
		Name:           name,
		Category:       cast.ToString(doc["category"]),
		Price:          price,
		Image:          image,
		Images:         documentImages(doc["images"], image),
		Description:    cast.ToString(doc["description"]),
		Rating:         documentRating(doc["rating"]),
		InStock:        documentBool(doc, "inStock", true),
		Featured:       documentBool(doc, "featured", false),
		Specifications: specs,
	}, nil
}

// TransformDocuments transforms every record independently. Records that fail are
// left out of the returned slice and their errors joined.
func TransformDocuments(docs []docstore.Document) ([]models.Product, error) {
	products := make([]models.Product, 0, len(docs))
	var errs []error
	for _, doc := range docs {
		product, err := TransformDocument(doc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		products = append(products, product)
	}
	return products, errors.Join(errs...)
}

func documentID(doc docstore.Document) string {
	for _, key := range documentIDKeys {
		if id := strings.TrimSpace(cast.ToString(doc[key])); id != "" {
			return id
		}
	}
	return ""
}

func documentPrice(v any) (int64, error) {
	if v == nil {
		return 0, nil
	}
	price, err := cast.ToInt64E(v)
	if err != nil {
		return 0, fmt.Errorf("price %v is not a number", v)
	}
	if price < 0 {
		return 0, fmt.Errorf("price %d is negative", price)
	}
	return price, nil
}

func documentRating(v any) float64 {
	rating, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(rating) || rating < 0 {
		return 0
	}
	return min(rating, maxRating)
}

// documentBool applies def when the key is absent, null or not a boolean.
func documentBool(doc docstore.Document, key string, def bool) bool {
	v, ok := doc[key]
	if !ok || v == nil {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

func documentImages(v any, image string) []string {
	images, _ := cast.ToStringSliceE(v)
	images = nonEmptyStrings(images)
	if len(images) == 0 && image != "" {
		return []string{image}
	}
	if images == nil {
		return []string{}
	}
	return images
}

func nonEmptyStrings(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// documentSpecifications decodes the specifications attribute, which the remote
// store may hold as a JSON string. Empty strings and null mean no specifications.
func documentSpecifications(v any) (models.Specifications, error) {
	var raw map[string]any
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		if err := json.Unmarshal([]byte(val), &raw); err != nil {
			return nil, fmt.Errorf("decode specifications: %w", err)
		}
	case models.Specifications:
		raw = val
	case docstore.Document:
		raw = val
	default:
		m, err := cast.ToStringMapE(val)
		if err != nil {
			return nil, fmt.Errorf("specifications of type %T: %w", v, err)
		}
		raw = m
	}
	if len(raw) == 0 {
		return nil, nil
	}

	specs := make(models.Specifications, len(raw))
	for key, value := range raw {
		if key == models.SpecFeaturesKey {
			features, err := cast.ToStringSliceE(value)
			if err != nil {
				return nil, fmt.Errorf("specification features: %w", err)
			}
			specs[key] = features
			continue
		}
		specs[key] = cast.ToString(value)
	}
	return specs, nil
}

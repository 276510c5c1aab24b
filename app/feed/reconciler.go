package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/lysyi3m/rss-reader/app/database"
)

// Reconciler merges freshly parsed items into the persisted article
// collection of one feed source.
//
// Merge precedence, field by field:
//   - content fields (title, link, description, dates, content, snippet,
//     author, categories, guid, enclosure): incoming wins
//   - status flags (read, favorite, read-later): existing wins
//
// Articles already persisted for the feed whose identity does not appear in
// the incoming items are retained unchanged. Feeds are additive: upstream
// documents only list a recent window of items, so an article dropping out
// of that window is not a deletion.
type Reconciler struct{}

func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// ArticleID derives the stable identity of an article from its owning feed
// source and the item identity (guid, or link when the guid is absent).
// Refetching the same feed therefore reconciles onto the same article
// instead of duplicating it.
func ArticleID(feedSourceID, identity string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%s", feedSourceID, identity)))
	return hex.EncodeToString(hash[:])
}

// Run returns the reconciled article set for the feed: every incoming item
// merged onto its existing article (or synthesized fresh), followed by the
// retained articles the fetch no longer mentions. When two incoming items
// share an identity the later one wins.
func (r *Reconciler) Run(feedSourceID string, existing []database.Article, items []NormalizedItem) []database.Article {
	byGUID := make(map[string]*database.Article, len(existing))
	byLink := make(map[string]*database.Article, len(existing))
	for i := range existing {
		article := &existing[i]
		if article.GUID != "" {
			byGUID[article.GUID] = article
		}
		if article.Link != "" {
			byLink[article.Link] = article
		}
	}

	merged := make(map[string]database.Article, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		identity := item.Identity()
		if identity == "" {
			continue
		}

		var match *database.Article
		if item.GUID != "" {
			match = byGUID[item.GUID]
		}
		if match == nil {
			match = byLink[item.Link]
		}

		if _, seen := merged[identity]; !seen {
			order = append(order, identity)
		}

		if match != nil {
			merged[identity] = r.merge(*match, item)
		} else {
			merged[identity] = r.synthesize(feedSourceID, item)
		}
	}

	result := make([]database.Article, 0, len(order)+len(existing))
	mergedIDs := make(map[string]bool, len(order))
	for _, identity := range order {
		article := merged[identity]
		result = append(result, article)
		mergedIDs[article.ID] = true
	}

	for _, article := range existing {
		if !mergedIDs[article.ID] {
			result = append(result, article)
		}
	}

	return result
}

func (r *Reconciler) merge(existing database.Article, item NormalizedItem) database.Article {
	updated := existing

	updated.GUID = item.GUID
	updated.Title = item.Title
	updated.Link = item.Link
	updated.Description = item.Description
	updated.PubDate = item.PubDate
	updated.IsoDate = item.IsoDate
	updated.PublishedAt = item.PublishedAt
	updated.Content = item.Content
	updated.ContentSnippet = item.ContentSnippet
	updated.Author = item.Author
	updated.Categories = item.Categories
	r.applyEnclosure(&updated, item.Enclosure)

	if imageURL := r.extractItemImage(item); imageURL != "" {
		updated.ImageURL = imageURL
	}

	// Read, Favorite and ReadLater are carried over from existing untouched

	return updated
}

func (r *Reconciler) synthesize(feedSourceID string, item NormalizedItem) database.Article {
	article := database.Article{
		ID:             ArticleID(feedSourceID, item.Identity()),
		FeedSourceID:   feedSourceID,
		GUID:           item.GUID,
		Title:          item.Title,
		Link:           item.Link,
		Description:    item.Description,
		PubDate:        item.PubDate,
		IsoDate:        item.IsoDate,
		PublishedAt:    item.PublishedAt,
		Content:        item.Content,
		ContentSnippet: item.ContentSnippet,
		Author:         item.Author,
		Categories:     item.Categories,
		ImageURL:       r.extractItemImage(item),
	}
	r.applyEnclosure(&article, item.Enclosure)

	return article
}

func (r *Reconciler) applyEnclosure(article *database.Article, enclosure *Enclosure) {
	if enclosure == nil {
		article.EnclosureURL = ""
		article.EnclosureType = ""
		article.EnclosureLength = 0
		return
	}
	article.EnclosureURL = enclosure.URL
	article.EnclosureType = enclosure.Type
	article.EnclosureLength = enclosure.Length
}

func (r *Reconciler) extractItemImage(item NormalizedItem) string {
	if imageURL := ExtractImageURL(item.Content); imageURL != "" {
		return imageURL
	}
	return ExtractImageURL(item.Description)
}

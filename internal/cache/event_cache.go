package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"eventhub/internal/model"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	listCachePrefix   = "events:list"
	detailCachePrefix = "event:detail"
)

// EventCache 是活動查詢的 read-through 快取。
// 兩個 key family：列表查詢指紋、單一活動 detail。
// 任何活動寫入 (建立/編輯/刪除/報名) 都會讓整個列表 family 失效，
// 因為列表內嵌 spots_left，任何一筆報名都會改變某個列表的內容。
type EventCache struct {
	store Store
	ttl   time.Duration
}

func NewEventCache(store Store, ttl time.Duration) *EventCache {
	return &EventCache{
		store: store,
		ttl:   ttl,
	}
}

// listKey 由正規化後的查詢條件產生確定性的指紋
func (c *EventCache) listKey(filter model.EventFilter) string {
	f := filter.Normalize()
	return fmt.Sprintf("%s:q=%s&category=%s",
		listCachePrefix, url.QueryEscape(f.Query), url.QueryEscape(f.Category))
}

func (c *EventCache) detailKey(eventID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", detailCachePrefix, eventID)
}

func (c *EventCache) GetEventList(ctx context.Context, filter model.EventFilter) ([]*model.EventSummary, bool) {
	val, ok := c.store.Get(ctx, c.listKey(filter))
	if !ok {
		return nil, false
	}

	var summaries []*model.EventSummary
	if err := json.Unmarshal([]byte(val), &summaries); err != nil {
		// 快取內容壞掉就當作 miss，下一次 Put 會覆寫
		logger.WithComponent("cache").Warn("corrupt list entry", zap.Error(err))
		return nil, false
	}
	return summaries, true
}

func (c *EventCache) PutEventList(ctx context.Context, filter model.EventFilter, summaries []*model.EventSummary) {
	data, err := json.Marshal(summaries)
	if err != nil {
		logger.WithComponent("cache").Warn("marshal list failed", zap.Error(err))
		return
	}
	c.store.Put(ctx, c.listKey(filter), string(data), c.ttl)
}

func (c *EventCache) GetEventDetail(ctx context.Context, eventID uuid.UUID) (*model.EventDetail, bool) {
	val, ok := c.store.Get(ctx, c.detailKey(eventID))
	if !ok {
		return nil, false
	}

	var detail model.EventDetail
	if err := json.Unmarshal([]byte(val), &detail); err != nil {
		logger.WithComponent("cache").Warn("corrupt detail entry", zap.String("event_id", eventID.String()), zap.Error(err))
		return nil, false
	}
	return &detail, true
}

func (c *EventCache) PutEventDetail(ctx context.Context, detail *model.EventDetail) {
	data, err := json.Marshal(detail)
	if err != nil {
		logger.WithComponent("cache").Warn("marshal detail failed", zap.Error(err))
		return
	}
	c.store.Put(ctx, c.detailKey(detail.EventID), string(data), c.ttl)
}

// InvalidateEvent 清掉指定活動的 detail 與所有列表快取
func (c *EventCache) InvalidateEvent(ctx context.Context, eventID uuid.UUID) {
	c.store.Invalidate(ctx, c.detailKey(eventID))
	c.store.InvalidatePrefix(ctx, listCachePrefix)
}

// InvalidateLists 只清列表 family (活動新建時 detail 還不存在)
func (c *EventCache) InvalidateLists(ctx context.Context) {
	c.store.InvalidatePrefix(ctx, listCachePrefix)
}

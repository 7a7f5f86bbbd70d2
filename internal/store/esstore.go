package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olivere/elastic/v7"

	"github.com/taskcore/taskmanager/internal/domain"
	"github.com/taskcore/taskmanager/internal/logger"
)

// Index mapping: keyword subfields carry a lowercase normalizer so
// wildcard matching stays case-insensitive, mirroring the ILIKE fallback
// of the relational backend.
const esIndexBody = `{
	"settings": {
		"analysis": {
			"normalizer": {
				"lowercase_norm": {"type": "custom", "filter": ["lowercase"]}
			}
		}
	},
	"mappings": {
		"properties": {
			"id":           {"type": "integer"},
			"title":        {"type": "text", "fields": {"keyword": {"type": "keyword", "normalizer": "lowercase_norm"}}},
			"description":  {"type": "text", "fields": {"keyword": {"type": "keyword", "normalizer": "lowercase_norm"}}},
			"status":       {"type": "keyword"},
			"created_date": {"type": "date", "format": "yyyy-MM-dd HH:mm:ss"}
		}
	}
}`

// ESStore keeps tasks as documents in a single Elasticsearch index.
// Writes wait for a refresh so a read issued right after a mutation sees
// it, matching the read-your-writes behavior of the other backends.
type ESStore struct {
	client *elastic.Client
	index  string
}

// NewESStore connects and creates the index if it is missing. Index
// creation is idempotent across restarts.
func NewESStore(ctx context.Context, url, index string) (*ESStore, error) {
	client, err := elastic.NewClient(elastic.SetURL(url), elastic.SetSniff(false))
	if err != nil {
		return nil, fmt.Errorf("connect elasticsearch: %w", err)
	}
	exists, err := client.IndexExists(index).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("check index %s: %w", index, err)
	}
	if !exists {
		if _, err := client.CreateIndex(index).BodyString(esIndexBody).Do(ctx); err != nil {
			return nil, fmt.Errorf("create index %s: %w", index, err)
		}
		logger.InfoLog(ctx, fmt.Sprintf("created elasticsearch index %s", index))
	}
	return &ESStore{client: client, index: index}, nil
}

// nextID follows the same max-plus-one rule as the file backend, read
// from a max aggregation over the live documents.
func (s *ESStore) nextID(ctx context.Context) (int, error) {
	res, err := s.client.Search().
		Index(s.index).
		Size(0).
		Aggregation("max_id", elastic.NewMaxAggregation().Field("id")).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("max id aggregation: %w", err)
	}
	maxAgg, found := res.Aggregations.Max("max_id")
	if !found || maxAgg.Value == nil {
		return 1, nil
	}
	return int(*maxAgg.Value) + 1, nil
}

func (s *ESStore) Add(ctx context.Context, title, description string) (*domain.Task, error) {
	id, err := s.nextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	task := domain.NewTask(id, title, description)
	_, err = s.client.Index().
		Index(s.index).
		Id(strconv.Itoa(id)).
		BodyJson(task.ToDocument()).
		Refresh("wait_for").
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	logger.InfoLog(ctx, fmt.Sprintf("added task ID %d: %s", task.ID, task.Title))
	return &task, nil
}

func (s *ESStore) GetAll(ctx context.Context) ([]domain.Task, error) {
	res, err := s.client.Search().
		Index(s.index).
		Query(elastic.NewMatchAllQuery()).
		Sort("created_date", false).
		Size(10000).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasksFromHits(res)
}

func (s *ESStore) GetByID(ctx context.Context, id int) (*domain.Task, error) {
	res, err := s.client.Get().Index(s.index).Id(strconv.Itoa(id)).Do(ctx)
	if elastic.IsNotFound(err) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return taskFromSource(res.Source)
}

func (s *ESStore) Update(ctx context.Context, task *domain.Task) error {
	if _, err := s.GetByID(ctx, task.ID); err != nil {
		return err
	}
	_, err := s.client.Index().
		Index(s.index).
		Id(strconv.Itoa(task.ID)).
		BodyJson(task.ToDocument()).
		Refresh("wait_for").
		Do(ctx)
	if err != nil {
		return fmt.Errorf("update task %d: %w", task.ID, err)
	}
	logger.InfoLog(ctx, fmt.Sprintf("updated task ID %d: %s", task.ID, task.Title))
	return nil
}

func (s *ESStore) Delete(ctx context.Context, id int) (*domain.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, err = s.client.Delete().
		Index(s.index).
		Id(strconv.Itoa(id)).
		Refresh("wait_for").
		Do(ctx)
	if elastic.IsNotFound(err) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete task %d: %w", id, err)
	}
	logger.InfoLog(ctx, fmt.Sprintf("deleted task ID %d: %s", id, task.Title))
	return task, nil
}

// Search pairs analyzed full-text matching with lowercase wildcard
// matching on the keyword subfields, the same precision/recall compromise
// the relational backend makes.
func (s *ESStore) Search(ctx context.Context, keyword, status string) ([]domain.Task, error) {
	pattern := "*" + strings.ToLower(keyword) + "*"
	q := elastic.NewBoolQuery().
		Should(
			elastic.NewMultiMatchQuery(keyword, "title", "description"),
			elastic.NewWildcardQuery("title.keyword", pattern),
			elastic.NewWildcardQuery("description.keyword", pattern),
		).
		MinimumShouldMatch("1")
	if status != "" {
		q = q.Filter(elastic.NewTermQuery("status", status))
	}

	res, err := s.client.Search().
		Index(s.index).
		Query(q).
		Sort("created_date", false).
		Size(10000).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search tasks %q: %w", keyword, err)
	}
	return tasksFromHits(res)
}

// Statistics runs one search request carrying all the aggregations, so
// the four counts come from a single snapshot.
func (s *ESStore) Statistics(ctx context.Context) (*domain.TaskStats, error) {
	today := time.Now().Format("2006-01-02") + " 00:00:00"
	res, err := s.client.Search().
		Index(s.index).
		Size(0).
		TrackTotalHits(true).
		Aggregation("by_status", elastic.NewTermsAggregation().Field("status")).
		Aggregation("today", elastic.NewFilterAggregation().
			Filter(elastic.NewRangeQuery("created_date").Gte(today))).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("task statistics: %w", err)
	}

	stats := &domain.TaskStats{Total: int(res.TotalHits())}
	if byStatus, found := res.Aggregations.Terms("by_status"); found {
		for _, bucket := range byStatus.Buckets {
			key, _ := bucket.Key.(string)
			switch key {
			case domain.StatusPending:
				stats.Pending = int(bucket.DocCount)
			case domain.StatusCompleted:
				stats.Completed = int(bucket.DocCount)
			}
		}
	}
	if todayAgg, found := res.Aggregations.Filter("today"); found {
		stats.CreatedToday = int(todayAgg.DocCount)
	}
	return stats, nil
}

func taskFromSource(source json.RawMessage) (*domain.Task, error) {
	var doc domain.TaskDocument
	if err := json.Unmarshal(source, &doc); err != nil {
		return nil, fmt.Errorf("decode task document: %w", err)
	}
	task, err := domain.TaskFromDocument(doc)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func tasksFromHits(res *elastic.SearchResult) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, hit := range res.Hits.Hits {
		task, err := taskFromSource(hit.Source)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

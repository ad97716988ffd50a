// Package client is a small API client for the study planner backend. It
// keeps a per-exam cache of topics and status counts and applies topic
// status changes optimistically: the cache moves first, the server call
// follows, and a failed call rolls the cache back to its pre-mutation state.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"studyplanner/models"
	"studyplanner/services"
)

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	cache map[uint]*services.TopicsWithCounts
	// One rollback snapshot per exam. A second mutation on the same exam
	// overwrites it: concurrent edits are not merged, the last completed
	// write wins.
	snapshots map[uint]*services.TopicsWithCounts
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:   baseURL,
		http:      &http.Client{},
		cache:     make(map[uint]*services.TopicsWithCounts),
		snapshots: make(map[uint]*services.TopicsWithCounts),
	}
}

// Topics returns the exam's topics and counts, from cache when possible.
func (c *Client) Topics(examID uint) (*services.TopicsWithCounts, error) {
	c.mu.Lock()
	if cached, ok := c.cache[examID]; ok {
		result := copyTopics(cached)
		c.mu.Unlock()
		return result, nil
	}
	c.mu.Unlock()

	return c.refreshTopics(examID)
}

// Counts returns the cached per-status counts for an exam, fetching when
// the cache is cold.
func (c *Client) Counts(examID uint) (services.TopicCounts, error) {
	data, err := c.Topics(examID)
	if err != nil {
		return services.TopicCounts{}, err
	}
	return data.Counts, nil
}

// AddTopic creates a topic and folds it into the cached listing.
func (c *Client) AddTopic(examID uint, name string, estimatedMinutes int) (*models.Topic, error) {
	req := services.CreateTopicRequest{
		Name:             name,
		ExamID:           examID,
		EstimatedMinutes: estimatedMinutes,
	}

	var topic models.Topic
	if err := c.do(http.MethodPost, "/api/topics", req, &topic); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if cached, ok := c.cache[examID]; ok {
		cached.Topics = append([]models.Topic{topic}, cached.Topics...)
		cached.Counts.NotStarted++
	}
	c.mu.Unlock()

	return &topic, nil
}

// SetTopicStatus changes a topic's status optimistically. The cached topic
// and counts are updated before the request goes out; if the server rejects
// the change the cache is restored from the pre-mutation snapshot and the
// error is returned.
func (c *Client) SetTopicStatus(examID, topicID uint, status string) (*models.Topic, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("invalid topic status %q", status)
	}

	if _, err := c.Topics(examID); err != nil {
		return nil, err
	}

	c.mu.Lock()
	cached := c.cache[examID]
	c.snapshots[examID] = copyTopics(cached)
	if !applyStatus(cached, topicID, status) {
		c.mu.Unlock()
		return nil, fmt.Errorf("topic %d not in cached exam %d", topicID, examID)
	}
	c.mu.Unlock()

	req := services.UpdateTopicRequest{Status: status}
	var topic models.Topic
	err := c.do(http.MethodPut, fmt.Sprintf("/api/topics/%d", topicID), req, &topic)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if snapshot, ok := c.snapshots[examID]; ok {
			c.cache[examID] = snapshot
		}
		delete(c.snapshots, examID)
		return nil, err
	}

	// Confirmed: keep the optimistic counts and take the server's version
	// of the topic row.
	delete(c.snapshots, examID)
	if cached, ok := c.cache[examID]; ok {
		for i := range cached.Topics {
			if cached.Topics[i].ID == topic.ID {
				cached.Topics[i] = topic
				break
			}
		}
	}

	return &topic, nil
}

// RemoveTopic deletes a topic and adjusts the cached counts.
func (c *Client) RemoveTopic(examID, topicID uint) error {
	if err := c.do(http.MethodDelete, fmt.Sprintf("/api/topics/%d", topicID), nil, nil); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.cache[examID]
	if !ok {
		return nil
	}

	for i, t := range cached.Topics {
		if t.ID == topicID {
			decrementBucket(&cached.Counts, t.Status)
			cached.Topics = append(cached.Topics[:i], cached.Topics[i+1:]...)
			break
		}
	}

	return nil
}

// Invalidate drops the cached listing for an exam.
func (c *Client) Invalidate(examID uint) {
	c.mu.Lock()
	delete(c.cache, examID)
	delete(c.snapshots, examID)
	c.mu.Unlock()
}

func (c *Client) refreshTopics(examID uint) (*services.TopicsWithCounts, error) {
	var data services.TopicsWithCounts
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/topics/exam/%d", examID), nil, &data); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[examID] = &data
	result := copyTopics(&data)
	c.mu.Unlock()

	return result, nil
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// applyStatus moves the topic's count between status buckets and updates
// the topic row in place. Reports whether the topic was found.
func applyStatus(data *services.TopicsWithCounts, topicID uint, status string) bool {
	for i := range data.Topics {
		if data.Topics[i].ID != topicID {
			continue
		}
		if data.Topics[i].Status != status {
			decrementBucket(&data.Counts, data.Topics[i].Status)
			incrementBucket(&data.Counts, status)
			data.Topics[i].Status = status
		}
		return true
	}
	return false
}

func incrementBucket(counts *services.TopicCounts, status string) {
	switch status {
	case models.StatusNotStarted:
		counts.NotStarted++
	case models.StatusInProgress:
		counts.InProgress++
	case models.StatusCompleted:
		counts.Completed++
	}
}

func decrementBucket(counts *services.TopicCounts, status string) {
	switch status {
	case models.StatusNotStarted:
		if counts.NotStarted > 0 {
			counts.NotStarted--
		}
	case models.StatusInProgress:
		if counts.InProgress > 0 {
			counts.InProgress--
		}
	case models.StatusCompleted:
		if counts.Completed > 0 {
			counts.Completed--
		}
	}
}

func copyTopics(data *services.TopicsWithCounts) *services.TopicsWithCounts {
	copied := &services.TopicsWithCounts{
		Topics: make([]models.Topic, len(data.Topics)),
		Counts: data.Counts,
	}
	copy(copied.Topics, data.Topics)
	return copied
}

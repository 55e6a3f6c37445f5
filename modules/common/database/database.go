package database

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/supabase-community/supabase-go"

	"glowup-server/modules/common/apperr"
	"glowup-server/modules/common/model"
)

const jobsTable = "glowup_jobs"

// Client - Job 레저 (Supabase Postgrest)
type Client struct {
	supabase *supabase.Client
}

// NewClient - Database 클라이언트 생성
func NewClient(supabaseURL, serviceKey string) (*Client, error) {
	supabaseClient, err := supabase.NewClient(supabaseURL, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	return &Client{supabase: supabaseClient}, nil
}

// CreateJob - 새 Job 레코드 생성 (항상 locked 상태로 시작)
func (c *Client) CreateJob(job *model.GlowupJob) error {
	log.Printf("📝 Creating job record: %s (owner: %s)", job.GlowupID, job.OwnerID)

	_, _, err := c.supabase.From(jobsTable).
		Insert(job, false, "", "", "").
		Execute()
	if err != nil {
		return apperr.Wrap(apperr.Unavailable, "failed to insert job", err)
	}

	log.Printf("✅ Job created: %s", job.GlowupID)
	return nil
}

// GetJob - 소유자+ID로 Job 조회
func (c *Client) GetJob(ownerID, glowupID string) (*model.GlowupJob, error) {
	var jobs []model.GlowupJob

	data, _, err := c.supabase.From(jobsTable).
		Select("*", "exact", false).
		Eq("owner_id", ownerID).
		Eq("glowup_id", glowupID).
		Execute()
	if err != nil {
		return nil, apperr.Wrap(apperr.Unavailable, "failed to query job", err)
	}

	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse job response: %w", err)
	}

	if len(jobs) == 0 {
		return nil, apperr.New(apperr.NotFound, fmt.Sprintf("job not found: %s", glowupID))
	}

	return &jobs[0], nil
}

// UpdateJob - Job 필드 부분 업데이트
func (c *Client) UpdateJob(ownerID, glowupID string, fields map[string]interface{}) error {
	log.Printf("📝 Updating job %s: %v", glowupID, keys(fields))

	_, _, err := c.supabase.From(jobsTable).
		Update(fields, "", "").
		Eq("owner_id", ownerID).
		Eq("glowup_id", glowupID).
		Execute()
	if err != nil {
		return apperr.Wrap(apperr.Unavailable, "failed to update job", err)
	}

	return nil
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

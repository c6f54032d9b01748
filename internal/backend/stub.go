package backend

import (
	"context"
	"fmt"
	"sync"

	id "veridesk/pkg/domain"
	"veridesk/pkg/platform/sentinel"
)

// StubClient is a deterministic in-memory Client for tests. It records every
// call so tests can assert exactly which platform operations ran, including
// that none did.
type StubClient struct {
	mu    sync.Mutex
	calls []string

	Tokens     map[string]Token // email -> token issued on login
	Profile    ClientProfile
	Admin      AdminProfile
	Applicants map[id.ApplicantID]Applicant
	Flows      map[id.FlowID]Flow
	Results    []VerificationResult
	StatsValue Stats

	// Err, when set, is returned by every call.
	Err error

	nextID int
}

// NewStubClient creates an empty stub.
func NewStubClient() *StubClient {
	return &StubClient{
		Tokens:     make(map[string]Token),
		Applicants: make(map[id.ApplicantID]Applicant),
		Flows:      make(map[id.FlowID]Flow),
	}
}

// Calls returns the recorded call names in order.
func (s *StubClient) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CallCount returns how many platform calls ran.
func (s *StubClient) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *StubClient) record(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
	return s.Err
}

func (s *StubClient) LoginAdmin(_ context.Context, creds Credentials) (Token, error) {
	if err := s.record("LoginAdmin"); err != nil {
		return "", err
	}
	return s.login(creds)
}

func (s *StubClient) LoginClient(_ context.Context, creds Credentials) (Token, error) {
	if err := s.record("LoginClient"); err != nil {
		return "", err
	}
	return s.login(creds)
}

func (s *StubClient) login(creds Credentials) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.Tokens[creds.Email]
	if !ok {
		return "", sentinel.ErrUnauthorized
	}
	return token, nil
}

func (s *StubClient) AdminProfile(_ context.Context, _ Token) (AdminProfile, error) {
	if err := s.record("AdminProfile"); err != nil {
		return AdminProfile{}, err
	}
	return s.Admin, nil
}

func (s *StubClient) ClientProfile(_ context.Context, _ Token) (ClientProfile, error) {
	if err := s.record("ClientProfile"); err != nil {
		return ClientProfile{}, err
	}
	return s.Profile, nil
}

func (s *StubClient) ListApplicants(_ context.Context, _ Token, _ ListParams) (ApplicantPage, error) {
	if err := s.record("ListApplicants"); err != nil {
		return ApplicantPage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	page := ApplicantPage{Page: 1, Pages: 1, Total: len(s.Applicants)}
	for _, a := range s.Applicants {
		page.Applicants = append(page.Applicants, a)
	}
	return page, nil
}

func (s *StubClient) GetApplicant(_ context.Context, _ Token, applicantID id.ApplicantID) (Applicant, error) {
	if err := s.record("GetApplicant"); err != nil {
		return Applicant{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Applicants[applicantID]
	if !ok {
		return Applicant{}, sentinel.ErrNotFound
	}
	return a, nil
}

func (s *StubClient) CreateApplicant(_ context.Context, _ Token, payload NewApplicant) (Applicant, error) {
	if err := s.record("CreateApplicant"); err != nil {
		return Applicant{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	a := Applicant{
		ID:                    id.ApplicantID(fmt.Sprintf("applicant-%d", s.nextID)),
		FirstName:             payload.FirstName,
		LastName:              payload.LastName,
		Email:                 payload.Email,
		Phone:                 payload.Phone,
		RequiredVerifications: payload.RequiredVerifications,
		VerificationConfig:    payload.VerificationConfig,
		SubscriptionPlan:      payload.SubscriptionPlan,
		Status:                "pending",
	}
	s.Applicants[a.ID] = a
	return a, nil
}

func (s *StubClient) UpdateApplicant(_ context.Context, _ Token, applicantID id.ApplicantID, payload ApplicantUpdate) (Applicant, error) {
	if err := s.record("UpdateApplicant"); err != nil {
		return Applicant{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Applicants[applicantID]
	if !ok {
		return Applicant{}, sentinel.ErrNotFound
	}
	if payload.FirstName != "" {
		a.FirstName = payload.FirstName
	}
	if payload.LastName != "" {
		a.LastName = payload.LastName
	}
	if payload.Email != "" {
		a.Email = payload.Email
	}
	if payload.Phone != "" {
		a.Phone = payload.Phone
	}
	a.RequiredVerifications = payload.RequiredVerifications
	a.VerificationConfig = payload.VerificationConfig
	a.SubscriptionPlan = payload.SubscriptionPlan
	s.Applicants[applicantID] = a
	return a, nil
}

func (s *StubClient) DeleteApplicant(_ context.Context, _ Token, applicantID id.ApplicantID) error {
	if err := s.record("DeleteApplicant"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Applicants[applicantID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.Applicants, applicantID)
	return nil
}

func (s *StubClient) ListFlows(_ context.Context, _ Token) ([]Flow, error) {
	if err := s.record("ListFlows"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	flows := make([]Flow, 0, len(s.Flows))
	for _, f := range s.Flows {
		flows = append(flows, f)
	}
	return flows, nil
}

func (s *StubClient) GetFlow(_ context.Context, _ Token, flowID id.FlowID) (Flow, error) {
	if err := s.record("GetFlow"); err != nil {
		return Flow{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.Flows[flowID]
	if !ok {
		return Flow{}, sentinel.ErrNotFound
	}
	return f, nil
}

func (s *StubClient) CreateFlow(_ context.Context, _ Token, payload NewFlow) (Flow, error) {
	if err := s.record("CreateFlow"); err != nil {
		return Flow{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	f := Flow{
		ID:                    id.FlowID(fmt.Sprintf("flow-%d", s.nextID)),
		Name:                  payload.Name,
		Description:           payload.Description,
		MaxUses:               payload.MaxUses,
		RequiredVerifications: payload.RequiredVerifications,
		VerificationConfig:    payload.VerificationConfig,
		SubscriptionPlan:      payload.SubscriptionPlan,
	}
	s.Flows[f.ID] = f
	return f, nil
}

func (s *StubClient) UpdateFlow(_ context.Context, _ Token, flowID id.FlowID, payload FlowUpdate) (Flow, error) {
	if err := s.record("UpdateFlow"); err != nil {
		return Flow{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.Flows[flowID]
	if !ok {
		return Flow{}, sentinel.ErrNotFound
	}
	if payload.Name != "" {
		f.Name = payload.Name
	}
	if payload.Description != "" {
		f.Description = payload.Description
	}
	if payload.MaxUses != 0 {
		f.MaxUses = payload.MaxUses
	}
	f.RequiredVerifications = payload.RequiredVerifications
	f.VerificationConfig = payload.VerificationConfig
	f.SubscriptionPlan = payload.SubscriptionPlan
	s.Flows[flowID] = f
	return f, nil
}

func (s *StubClient) DeleteFlow(_ context.Context, _ Token, flowID id.FlowID) error {
	if err := s.record("DeleteFlow"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Flows[flowID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.Flows, flowID)
	return nil
}

func (s *StubClient) VerificationResults(_ context.Context, _ Token, applicantID id.ApplicantID) ([]VerificationResult, error) {
	if err := s.record("VerificationResults"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []VerificationResult
	for _, r := range s.Results {
		if r.ApplicantID == applicantID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *StubClient) Stats(_ context.Context, _ Token) (Stats, error) {
	if err := s.record("Stats"); err != nil {
		return Stats{}, err
	}
	return s.StatsValue, nil
}

var _ Client = (*StubClient)(nil)

package service

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"datarw/internal/ai"
	"datarw/internal/model"
	"datarw/internal/payment"
)

// In-memory repository fakes. They implement just enough of the repository
// interfaces for the service tests; filters are interpreted for the shapes
// the services actually pass.

type fakeOrgRepo struct {
	orgs map[primitive.ObjectID]*model.Organization
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{orgs: map[primitive.ObjectID]*model.Organization{}}
}

func (r *fakeOrgRepo) Create(ctx context.Context, org *model.Organization) (*model.Organization, error) {
	org.ID = primitive.NewObjectID()
	org.CreatedAt = time.Now()
	org.UpdatedAt = org.CreatedAt
	r.orgs[org.ID] = org
	return org, nil
}

func (r *fakeOrgRepo) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) (*model.Organization, error) {
	for _, org := range r.orgs {
		if org.OwnerID == ownerID {
			return org, nil
		}
	}
	return nil, nil
}

func (r *fakeOrgRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Organization, error) {
	return r.orgs[id], nil
}

func (r *fakeOrgRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	org, ok := r.orgs[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "name":
			org.Name = v.(string)
		case "plan":
			org.Plan = v.(model.Plan)
		case "usage":
			org.Usage = v.(model.OrgUsage)
		case "subscription.status":
			org.Subscription.Status = v.(string)
		case "subscription.startedAt":
			org.Subscription.StartedAt = v.(time.Time)
		case "subscription.renewsAt":
			org.Subscription.RenewsAt = v.(time.Time)
		}
	}
	org.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOrgRepo) FindAll(ctx context.Context) ([]*model.Organization, error) {
	var out []*model.Organization
	for _, org := range r.orgs {
		out = append(out, org)
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*model.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.users {
		if u.OrgID == orgID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "role":
			u.Role = v.(model.Role)
		case "active":
			u.Active = v.(bool)
		case "orgId":
			u.OrgID = v.(primitive.ObjectID)
		}
	}
	return nil
}

func (r *fakeUserRepo) CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.OrgID == orgID && u.Active {
			n++
		}
	}
	return n, nil
}

type fakeProjectRepo struct {
	projects map[primitive.ObjectID]*model.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[primitive.ObjectID]*model.Project{}}
}

func (r *fakeProjectRepo) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	p.ID = primitive.NewObjectID()
	r.projects[p.ID] = p
	return p, nil
}

func (r *fakeProjectRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Project, error) {
	return r.projects[id], nil
}

func (r *fakeProjectRepo) FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Project, error) {
	var out []*model.Project
	for _, p := range r.projects {
		if p.OrgID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(r.projects, id)
	return nil
}

func (r *fakeProjectRepo) CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	list, _ := r.FindByOrg(ctx, orgID)
	return int64(len(list)), nil
}

type fakeBudgetRepo struct {
	items map[primitive.ObjectID]*model.BudgetItem
}

func newFakeBudgetRepo() *fakeBudgetRepo {
	return &fakeBudgetRepo{items: map[primitive.ObjectID]*model.BudgetItem{}}
}

func (r *fakeBudgetRepo) Create(ctx context.Context, item *model.BudgetItem) error {
	item.SetID(primitive.NewObjectID())
	r.items[item.GetID()] = item
	return nil
}

func (r *fakeBudgetRepo) GetByID(ctx context.Context, id string) (*model.BudgetItem, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return r.items[objID], nil
}

func (r *fakeBudgetRepo) Update(ctx context.Context, item *model.BudgetItem) error {
	r.items[item.GetID()] = item
	return nil
}

func (r *fakeBudgetRepo) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	delete(r.items, objID)
	return nil
}

func (r *fakeBudgetRepo) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]*model.BudgetItem, error) {
	var out []*model.BudgetItem
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *fakeBudgetRepo) Count(ctx context.Context, filter interface{}) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *fakeBudgetRepo) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	n := int64(len(r.items))
	r.items = map[primitive.ObjectID]*model.BudgetItem{}
	return n, nil
}

func (r *fakeBudgetRepo) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]*model.BudgetItem, error) {
	var out []*model.BudgetItem
	for _, item := range r.items {
		if item.ProjectID == projectID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeBudgetRepo) FindByActivity(ctx context.Context, activityID primitive.ObjectID) ([]*model.BudgetItem, error) {
	var out []*model.BudgetItem
	for _, item := range r.items {
		if item.ActivityID == activityID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeBudgetRepo) SumPlannedByCategory(ctx context.Context, projectID primitive.ObjectID) (map[string]float64, error) {
	sums := map[string]float64{}
	for _, item := range r.items {
		if item.ProjectID == projectID {
			sums[item.Category] += item.PlannedAmount
		}
	}
	return sums, nil
}

type fakeExpenseRepo struct {
	expenses map[primitive.ObjectID]*model.Expense
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: map[primitive.ObjectID]*model.Expense{}}
}

func (r *fakeExpenseRepo) Create(ctx context.Context, e *model.Expense) error {
	e.SetID(primitive.NewObjectID())
	r.expenses[e.GetID()] = e
	return nil
}

func (r *fakeExpenseRepo) GetByID(ctx context.Context, id string) (*model.Expense, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return r.expenses[objID], nil
}

func (r *fakeExpenseRepo) Update(ctx context.Context, e *model.Expense) error {
	r.expenses[e.GetID()] = e
	return nil
}

func (r *fakeExpenseRepo) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	delete(r.expenses, objID)
	return nil
}

func (r *fakeExpenseRepo) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]*model.Expense, error) {
	var out []*model.Expense
	for _, e := range r.expenses {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeExpenseRepo) Count(ctx context.Context, filter interface{}) (int64, error) {
	return int64(len(r.expenses)), nil
}

func (r *fakeExpenseRepo) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	n := int64(len(r.expenses))
	r.expenses = map[primitive.ObjectID]*model.Expense{}
	return n, nil
}

func (r *fakeExpenseRepo) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]*model.Expense, error) {
	var out []*model.Expense
	for _, e := range r.expenses {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExpenseRepo) SumActualByCategory(ctx context.Context, projectID primitive.ObjectID) (map[string]float64, error) {
	sums := map[string]float64{}
	for _, e := range r.expenses {
		if e.ProjectID == projectID {
			sums[e.Category] += e.Amount
		}
	}
	return sums, nil
}

func (r *fakeExpenseRepo) SumByProject(ctx context.Context, projectID primitive.ObjectID) (float64, error) {
	var sum float64
	for _, e := range r.expenses {
		if e.ProjectID == projectID {
			sum += e.Amount
		}
	}
	return sum, nil
}

func (r *fakeExpenseRepo) SumByBudgetItems(ctx context.Context, itemIDs []primitive.ObjectID) (float64, error) {
	var sum float64
	for _, e := range r.expenses {
		for _, id := range itemIDs {
			if e.BudgetItemID == id {
				sum += e.Amount
			}
		}
	}
	return sum, nil
}

func (r *fakeExpenseRepo) EarliestSpend(ctx context.Context, projectID primitive.ObjectID) (time.Time, error) {
	var earliest time.Time
	for _, e := range r.expenses {
		if e.ProjectID != projectID {
			continue
		}
		if earliest.IsZero() || e.SpentAt.Before(earliest) {
			earliest = e.SpentAt
		}
	}
	return earliest, nil
}

type fakeSurveyRepo struct {
	surveys map[primitive.ObjectID]*model.Survey
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{surveys: map[primitive.ObjectID]*model.Survey{}}
}

func (r *fakeSurveyRepo) Create(ctx context.Context, s *model.Survey) (*model.Survey, error) {
	s.ID = primitive.NewObjectID()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	r.surveys[s.ID] = s
	return s, nil
}

func (r *fakeSurveyRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Survey, error) {
	return r.surveys[id], nil
}

func (r *fakeSurveyRepo) FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Survey, error) {
	var out []*model.Survey
	for _, s := range r.surveys {
		if s.OrgID == orgID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeSurveyRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	s, ok := r.surveys[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "title":
			s.Title = v.(string)
		case "description":
			s.Description = v.(string)
		case "status":
			s.Status = v.(string)
		case "questions":
			s.Questions = v.([]model.Question)
		}
	}
	return nil
}

func (r *fakeSurveyRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(r.surveys, id)
	return nil
}

func (r *fakeSurveyRepo) CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	list, _ := r.FindByOrg(ctx, orgID)
	return int64(len(list)), nil
}

func (r *fakeSurveyRepo) IncResponseCount(ctx context.Context, id primitive.ObjectID) error {
	if s, ok := r.surveys[id]; ok {
		s.ResponseCount++
	}
	return nil
}

type fakeResponseRepo struct {
	responses map[primitive.ObjectID]*model.SurveyResponse
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{responses: map[primitive.ObjectID]*model.SurveyResponse{}}
}

func (r *fakeResponseRepo) Create(ctx context.Context, resp *model.SurveyResponse) error {
	resp.SetID(primitive.NewObjectID())
	r.responses[resp.GetID()] = resp
	return nil
}

func (r *fakeResponseRepo) GetByID(ctx context.Context, id string) (*model.SurveyResponse, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return r.responses[objID], nil
}

func (r *fakeResponseRepo) Update(ctx context.Context, resp *model.SurveyResponse) error {
	r.responses[resp.GetID()] = resp
	return nil
}

func (r *fakeResponseRepo) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	delete(r.responses, objID)
	return nil
}

func (r *fakeResponseRepo) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]*model.SurveyResponse, error) {
	var out []*model.SurveyResponse
	for _, resp := range r.responses {
		out = append(out, resp)
	}
	return out, nil
}

func (r *fakeResponseRepo) Count(ctx context.Context, filter interface{}) (int64, error) {
	return int64(len(r.responses)), nil
}

func (r *fakeResponseRepo) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	fields, _ := filter.(map[string]interface{})
	surveyID, _ := fields["surveyId"].(primitive.ObjectID)
	var n int64
	for id, resp := range r.responses {
		if resp.SurveyID == surveyID {
			delete(r.responses, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeResponseRepo) FindBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]*model.SurveyResponse, error) {
	var out []*model.SurveyResponse
	for _, resp := range r.responses {
		if resp.SurveyID == surveyID {
			out = append(out, resp)
		}
	}
	return out, nil
}

func (r *fakeResponseRepo) CountBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error) {
	list, _ := r.FindBySurvey(ctx, surveyID)
	return int64(len(list)), nil
}

type fakePaymentRepo struct {
	txs map[primitive.ObjectID]*model.PaymentTransaction
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{txs: map[primitive.ObjectID]*model.PaymentTransaction{}}
}

func (r *fakePaymentRepo) Create(ctx context.Context, tx *model.PaymentTransaction) (*model.PaymentTransaction, error) {
	tx.ID = primitive.NewObjectID()
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	r.txs[tx.ID] = tx
	return tx, nil
}

func (r *fakePaymentRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.PaymentTransaction, error) {
	return r.txs[id], nil
}

func (r *fakePaymentRepo) FindByGatewayRef(ctx context.Context, ref string) (*model.PaymentTransaction, error) {
	for _, tx := range r.txs {
		if tx.GatewayRef == ref {
			return tx, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.PaymentTransaction, error) {
	var out []*model.PaymentTransaction
	for _, tx := range r.txs {
		if tx.OrgID == orgID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	tx, ok := r.txs[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "status":
			tx.Status = v.(string)
		case "settledAt":
			t := v.(time.Time)
			tx.SettledAt = &t
		case "failureReason":
			tx.FailureReason = v.(string)
		}
	}
	return nil
}

type fakeAPIKeyRepo struct {
	keys map[primitive.ObjectID]*model.APIKey
}

func newFakeAPIKeyRepo() *fakeAPIKeyRepo {
	return &fakeAPIKeyRepo{keys: map[primitive.ObjectID]*model.APIKey{}}
}

func (r *fakeAPIKeyRepo) Create(ctx context.Context, key *model.APIKey) (*model.APIKey, error) {
	key.ID = primitive.NewObjectID()
	r.keys[key.ID] = key
	return key, nil
}

func (r *fakeAPIKeyRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.APIKey, error) {
	return r.keys[id], nil
}

func (r *fakeAPIKeyRepo) FindByOrgID(ctx context.Context, orgID primitive.ObjectID) ([]*model.APIKey, error) {
	var out []*model.APIKey
	for _, key := range r.keys {
		if key.OrgID == orgID {
			out = append(out, key)
		}
	}
	return out, nil
}

func (r *fakeAPIKeyRepo) FindActive(ctx context.Context) ([]*model.APIKey, error) {
	var out []*model.APIKey
	for _, key := range r.keys {
		if key.IsActive {
			out = append(out, key)
		}
	}
	return out, nil
}

func (r *fakeAPIKeyRepo) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	key, ok := r.keys[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "isActive":
			key.IsActive = v.(bool)
		case "lastUsedAt":
			key.LastUsedAt = v.(time.Time)
		}
	}
	return nil
}

func (r *fakeAPIKeyRepo) UpdateLastUsed(ctx context.Context, id primitive.ObjectID) error {
	if key, ok := r.keys[id]; ok {
		key.LastUsedAt = time.Now()
	}
	return nil
}

func (r *fakeAPIKeyRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(r.keys, id)
	return nil
}

func (r *fakeAPIKeyRepo) Count(ctx context.Context, filter interface{}) (int64, error) {
	return int64(len(r.keys)), nil
}

// stubProvider is a scriptable ai.Client
type stubProvider struct {
	draft        *ai.SurveyDraft
	translations []string
	err          error
}

func (p *stubProvider) GenerateSurvey(ctx context.Context, description string, questionCount int, language string) (*ai.SurveyDraft, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.draft, nil
}

func (p *stubProvider) TranslateTexts(ctx context.Context, texts []string, targetLanguage string) ([]string, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.translations, nil
}

// stubGateway settles nothing on its own; tests drive the webhook directly
type stubGateway struct {
	refs []string
}

func (g *stubGateway) CreateCheckout(amount float64, currency string) string {
	ref := "mock_test_" + primitive.NewObjectID().Hex()
	g.refs = append(g.refs, ref)
	return ref
}

func (g *stubGateway) SetWebhookHandler(fn payment.WebhookFunc) {}

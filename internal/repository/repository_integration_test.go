package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gig-marketplace/internal/db"
	"github.com/ignatzorin/gig-marketplace/internal/models"
)

// Интеграционные тесты транзакционных переходов: работают с настоящим
// Postgres, указанным в TEST_DATABASE_URL, иначе пропускаются.
// Проверяют то, что мокированные сервисные тесты проверить не могут:
// однократное начисление заработка, пересчёт рейтинга и атомарность
// принятия ставки.

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан, интеграционные тесты пропущены")
	}
	ctx := context.Background()
	conn, err := db.NewPostgres(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(ctx, conn, "../../migrations"))
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func createTestUser(t *testing.T, ctx context.Context, users *UserRepository, role string) *models.User {
	t.Helper()
	suffix := uuid.NewString()[:8]
	user := &models.User{
		Email:        fmt.Sprintf("%s_%s@example.com", role, suffix),
		Username:     fmt.Sprintf("%s_%s", role, suffix),
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, users.Create(ctx, user))
	if role == models.RoleFreelancer {
		profile := &models.FreelancerProfile{UserID: user.ID, Skills: []string{"go"}}
		require.NoError(t, users.UpsertFreelancerProfile(ctx, profile))
	}
	return user
}

func createOpenJob(t *testing.T, ctx context.Context, jobs *JobRepository, clientID uuid.UUID, budget float64) *models.Job {
	t.Helper()
	job := &models.Job{
		ClientID:    clientID,
		Title:       "Интеграция платёжного шлюза",
		Description: "Подключить приём платежей и вебхуки статусов.",
		Budget:      budget,
		Status:      models.JobStatusOpen,
	}
	require.NoError(t, jobs.Create(ctx, job))
	return job
}

func createBid(t *testing.T, ctx context.Context, jobs *JobRepository, jobID, freelancerID uuid.UUID, amount float64) *models.Bid {
	t.Helper()
	bid := &models.Bid{
		JobID:        jobID,
		FreelancerID: freelancerID,
		ProposalText: "Сделаю за неделю, есть опыт с похожими интеграциями.",
		Amount:       amount,
		DeliveryDays: 7,
		Status:       models.BidStatusPending,
	}
	require.NoError(t, jobs.CreateBid(ctx, bid))
	return bid
}

// createInProgressOrder создаёт заказ напрямую, с заданием-источником,
// как после покупки или принятия ставки.
func createInProgressOrder(t *testing.T, ctx context.Context, jobs *JobRepository, orders *OrderRepository, clientID, freelancerID uuid.UUID, price float64) *models.Order {
	t.Helper()
	job := createOpenJob(t, ctx, jobs, clientID, price)
	order := &models.Order{
		ClientID:     clientID,
		FreelancerID: freelancerID,
		JobID:        &job.ID,
		Price:        price,
		Status:       models.OrderStatusInProgress,
	}
	require.NoError(t, orders.Create(ctx, order))
	return order
}

func TestOrderRepository_Complete_CreditsEarningsOnce(t *testing.T) {
	conn := testDB(t)
	ctx := context.Background()
	users := NewUserRepository(conn)
	jobs := NewJobRepository(conn)
	orders := NewOrderRepository(conn)

	client := createTestUser(t, ctx, users, models.RoleClient)
	freelancer := createTestUser(t, ctx, users, models.RoleFreelancer)
	order := createInProgressOrder(t, ctx, jobs, orders, client.ID, freelancer.ID, 300)

	completed, err := orders.Complete(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	// Задание-источник закрыто той же транзакцией.
	job, err := jobs.GetByID(ctx, *order.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, job.Status)

	profile, err := users.GetFreelancerProfile(ctx, freelancer.ID)
	require.NoError(t, err)
	assert.InDelta(t, 300, profile.TotalEarnings, 0.001)

	// Повторное завершение отклоняется guard-ом перехода и не начисляет
	// заработок второй раз.
	_, err = orders.Complete(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderAlreadyCompleted)

	profile, err = users.GetFreelancerProfile(ctx, freelancer.ID)
	require.NoError(t, err)
	assert.InDelta(t, 300, profile.TotalEarnings, 0.001)
}

func TestReviewRepository_Create_RecalculatesRating(t *testing.T) {
	conn := testDB(t)
	ctx := context.Background()
	users := NewUserRepository(conn)
	jobs := NewJobRepository(conn)
	orders := NewOrderRepository(conn)
	reviews := NewReviewRepository(conn)

	client := createTestUser(t, ctx, users, models.RoleClient)
	freelancer := createTestUser(t, ctx, users, models.RoleFreelancer)

	for _, rating := range []int{5, 3, 4} {
		order := createInProgressOrder(t, ctx, jobs, orders, client.ID, freelancer.ID, 100)
		_, err := orders.Complete(ctx, order.ID)
		require.NoError(t, err)

		review := &models.Review{
			OrderID:      order.ID,
			ReviewerID:   client.ID,
			FreelancerID: freelancer.ID,
			Rating:       rating,
		}
		require.NoError(t, reviews.Create(ctx, review))
	}

	profile, err := users.GetFreelancerProfile(ctx, freelancer.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.00, profile.Rating, 0.001)
}

func TestReviewRepository_Create_DuplicatePerOrder(t *testing.T) {
	conn := testDB(t)
	ctx := context.Background()
	users := NewUserRepository(conn)
	jobs := NewJobRepository(conn)
	orders := NewOrderRepository(conn)
	reviews := NewReviewRepository(conn)

	client := createTestUser(t, ctx, users, models.RoleClient)
	freelancer := createTestUser(t, ctx, users, models.RoleFreelancer)
	order := createInProgressOrder(t, ctx, jobs, orders, client.ID, freelancer.ID, 100)
	_, err := orders.Complete(ctx, order.ID)
	require.NoError(t, err)

	review := &models.Review{OrderID: order.ID, ReviewerID: client.ID, FreelancerID: freelancer.ID, Rating: 5}
	require.NoError(t, reviews.Create(ctx, review))

	second := &models.Review{OrderID: order.ID, ReviewerID: client.ID, FreelancerID: freelancer.ID, Rating: 1}
	assert.ErrorIs(t, reviews.Create(ctx, second), ErrDuplicateReview)

	profile, err := users.GetFreelancerProfile(ctx, freelancer.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.00, profile.Rating, 0.001)
}

func TestJobRepository_AcceptBid_AtomicEffect(t *testing.T) {
	conn := testDB(t)
	ctx := context.Background()
	users := NewUserRepository(conn)
	jobs := NewJobRepository(conn)

	client := createTestUser(t, ctx, users, models.RoleClient)
	first := createTestUser(t, ctx, users, models.RoleFreelancer)
	second := createTestUser(t, ctx, users, models.RoleFreelancer)

	job := createOpenJob(t, ctx, jobs, client.ID, 900)
	winner := createBid(t, ctx, jobs, job.ID, first.ID, 750)
	loser := createBid(t, ctx, jobs, job.ID, second.ID, 600)

	acceptedBid, order, err := jobs.AcceptBid(ctx, winner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BidStatusAccepted, acceptedBid.Status)

	// Цена заказа равна сумме принятой ставки, а не бюджету задания.
	assert.InDelta(t, 750, order.Price, 0.001)
	assert.Equal(t, models.OrderStatusInProgress, order.Status)
	require.NotNil(t, order.JobID)
	assert.Equal(t, job.ID, *order.JobID)

	job, err = jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusInProgress, job.Status)

	rejected, err := jobs.GetBidByID(ctx, loser.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BidStatusRejected, rejected.Status)

	var orderCount int
	require.NoError(t, conn.GetContext(ctx, &orderCount, `SELECT COUNT(*) FROM orders WHERE job_id = $1`, job.ID))
	assert.Equal(t, 1, orderCount)
}

func TestJobRepository_AcceptBid_ConcurrentSingleWinner(t *testing.T) {
	conn := testDB(t)
	ctx := context.Background()
	users := NewUserRepository(conn)
	jobs := NewJobRepository(conn)

	client := createTestUser(t, ctx, users, models.RoleClient)
	first := createTestUser(t, ctx, users, models.RoleFreelancer)
	second := createTestUser(t, ctx, users, models.RoleFreelancer)

	job := createOpenJob(t, ctx, jobs, client.ID, 500)
	bids := []*models.Bid{
		createBid(t, ctx, jobs, job.ID, first.ID, 450),
		createBid(t, ctx, jobs, job.ID, second.ID, 400),
	}

	errs := make([]error, len(bids))
	var wg sync.WaitGroup
	for i, bid := range bids {
		wg.Add(1)
		go func(i int, bidID uuid.UUID) {
			defer wg.Done()
			_, _, errs[i] = jobs.AcceptBid(ctx, bidID)
		}(i, bid.ID)
	}
	wg.Wait()

	// Блокировка строки задания сериализует гонку: побеждает ровно одно
	// принятие, второе видит занятое задание.
	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if err != ErrJobHasAcceptedBid && err != ErrJobNotOpen {
			t.Fatalf("неожиданная ошибка гонки принятия: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)

	var acceptedCount int
	require.NoError(t, conn.GetContext(ctx, &acceptedCount, `SELECT COUNT(*) FROM bids WHERE job_id = $1 AND status = 'accepted'`, job.ID))
	assert.Equal(t, 1, acceptedCount)

	var orderCount int
	require.NoError(t, conn.GetContext(ctx, &orderCount, `SELECT COUNT(*) FROM orders WHERE job_id = $1`, job.ID))
	assert.Equal(t, 1, orderCount)
}

func TestReputationRepository_Rebuild_MatchesIncremental(t *testing.T) {
	conn := testDB(t)
	ctx := context.Background()
	users := NewUserRepository(conn)
	jobs := NewJobRepository(conn)
	orders := NewOrderRepository(conn)
	reviews := NewReviewRepository(conn)
	reputation := NewReputationRepository(conn)

	client := createTestUser(t, ctx, users, models.RoleClient)
	freelancer := createTestUser(t, ctx, users, models.RoleFreelancer)

	for _, step := range []struct {
		price  float64
		rating int
	}{
		{price: 200, rating: 5},
		{price: 350, rating: 4},
	} {
		order := createInProgressOrder(t, ctx, jobs, orders, client.ID, freelancer.ID, step.price)
		_, err := orders.Complete(ctx, order.ID)
		require.NoError(t, err)
		review := &models.Review{
			OrderID:      order.ID,
			ReviewerID:   client.ID,
			FreelancerID: freelancer.ID,
			Rating:       step.rating,
		}
		require.NoError(t, reviews.Create(ctx, review))
	}

	incremental, err := users.GetFreelancerProfile(ctx, freelancer.ID)
	require.NoError(t, err)

	// Полное перестроение из истории совпадает с инкрементальными
	// обновлениями.
	rebuilt, err := reputation.RebuildFreelancerStats(ctx, freelancer.ID)
	require.NoError(t, err)
	assert.InDelta(t, incremental.Rating, rebuilt.Rating, 0.001)
	assert.InDelta(t, incremental.TotalEarnings, rebuilt.TotalEarnings, 0.001)
	assert.InDelta(t, 4.50, rebuilt.Rating, 0.001)
	assert.InDelta(t, 550, rebuilt.TotalEarnings, 0.001)
}

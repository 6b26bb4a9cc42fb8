// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"agora/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers         int
	NumPosts         int
	NumAnnouncements int
	ShouldClean      bool
}

// Seeder populates the database with fake engagement data.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded engagement data. Tag catalog rows are kept.
func (s *Seeder) ClearAll() error {
	log.Println("Cleaning database...")
	tables := []string{"announcement_reads", "announcements", "comments", "votes", "posts", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean table %s: %w", table, err)
		}
	}
	return nil
}

// Run seeds users, posts, votes, comments and announcements.
func (s *Seeder) Run(opts Options) error {
	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	log.Printf("Created %d users", len(users))

	posts, err := s.seedPosts(users, opts.NumPosts)
	if err != nil {
		return err
	}
	log.Printf("Created %d posts", len(posts))

	votes, err := s.seedVotes(users, posts)
	if err != nil {
		return err
	}
	log.Printf("Created %d votes", votes)

	comments, err := s.seedComments(users, posts)
	if err != nil {
		return err
	}
	log.Printf("Created %d comments", comments)

	announcements, err := s.seedAnnouncements(users, opts.NumAnnouncements)
	if err != nil {
		return err
	}
	log.Printf("Created %d announcements", announcements)

	return nil
}

func (s *Seeder) seedUsers(n int) ([]*models.User, error) {
	if n <= 0 {
		n = 25
	}
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		role := models.RoleUser
		// First seeded account is always an admin for local testing.
		if i == 0 {
			role = models.RoleAdmin
		}
		name := gofakeit.Name()
		users = append(users, &models.User{
			Name:   name,
			Email:  fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Avatar: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
			Role:   role,
		})
	}
	if err := s.db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	return users, nil
}

func (s *Seeder) seedPosts(users []*models.User, n int) ([]*models.Post, error) {
	if n <= 0 {
		n = 100
	}
	tags := tagNames(s.db)
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		post := &models.Post{
			Title:        gofakeit.Sentence(s.rand.Intn(6) + 3),
			Description:  gofakeit.Paragraph(1, 3, 8, "\n"),
			Tag:          tags[s.rand.Intn(len(tags))],
			AuthorName:   author.Name,
			AuthorEmail:  author.Email,
			AuthorAvatar: author.Avatar,
			// realistic created_at spread over the last 90 days
			CreatedAt: time.Now().Add(-time.Duration(s.rand.Intn(90*24)) * time.Hour),
		}
		posts = append(posts, post)
	}
	if err := s.db.Create(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to seed posts: %w", err)
	}

	for _, post := range posts {
		err := s.db.Model(&models.User{}).
			Where("email = ?", post.AuthorEmail).
			Update("post_count", gorm.Expr("post_count + 1")).Error
		if err != nil {
			return nil, fmt.Errorf("failed to bump author post count: %w", err)
		}
	}
	return posts, nil
}

func (s *Seeder) seedVotes(users []*models.User, posts []*models.Post) (int, error) {
	total := 0
	for _, post := range posts {
		// each post gets votes from a random subset of users
		for _, user := range users {
			if s.rand.Intn(100) >= 40 {
				continue
			}
			voteType := models.VoteUp
			if s.rand.Intn(100) < 25 {
				voteType = models.VoteDown
			}
			vote := &models.Vote{
				PostID:     post.ID,
				VoterEmail: user.Email,
				VoteType:   voteType,
			}
			if err := s.db.Create(vote).Error; err != nil {
				return total, fmt.Errorf("failed to seed vote: %w", err)
			}
			total++
		}
	}
	return total, nil
}

func (s *Seeder) seedComments(users []*models.User, posts []*models.Post) (int, error) {
	total := 0
	for _, post := range posts {
		for i := 0; i < s.rand.Intn(6); i++ {
			commenter := users[s.rand.Intn(len(users))]
			comment := &models.Comment{
				PostID:          post.ID,
				PostTitle:       post.Title,
				Content:         gofakeit.Sentence(s.rand.Intn(12) + 3),
				CommenterName:   commenter.Name,
				CommenterEmail:  commenter.Email,
				CommenterAvatar: commenter.Avatar,
			}
			if err := s.db.Create(comment).Error; err != nil {
				return total, fmt.Errorf("failed to seed comment: %w", err)
			}
			total++
		}
	}
	return total, nil
}

func (s *Seeder) seedAnnouncements(users []*models.User, n int) (int, error) {
	if n <= 0 {
		n = 5
	}
	admin := users[0]
	for i := 0; i < n; i++ {
		announcement := &models.Announcement{
			Title:        gofakeit.Sentence(s.rand.Intn(4) + 2),
			Description:  gofakeit.Paragraph(1, 2, 6, "\n"),
			AuthorName:   admin.Name,
			AuthorEmail:  admin.Email,
			AuthorAvatar: admin.Avatar,
		}
		if err := s.db.Create(announcement).Error; err != nil {
			return i, fmt.Errorf("failed to seed announcement: %w", err)
		}
		// roughly half the users have already seen each announcement
		for _, user := range users {
			if s.rand.Intn(2) == 0 {
				continue
			}
			read := &models.AnnouncementRead{
				AnnouncementID: announcement.ID,
				UserEmail:      user.Email,
			}
			if err := s.db.Create(read).Error; err != nil {
				return i, fmt.Errorf("failed to seed announcement read: %w", err)
			}
		}
	}
	return n, nil
}

// tagNames returns the seeded tag catalog, falling back to the static list
// when the catalog table is empty.
func tagNames(db *gorm.DB) []string {
	var tags []models.Tag
	if err := db.Find(&tags).Error; err == nil && len(tags) > 0 {
		names := make([]string, 0, len(tags))
		for _, t := range tags {
			names = append(names, t.Name)
		}
		return names
	}
	return []string{"general", "help", "showcase"}
}

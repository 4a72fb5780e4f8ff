// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumArticles int
	ShouldClean bool
}

// Seed populates the database with test data. Every seeded user gets
// "password123" so the accounts are usable from a local client.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d articles...", opts.NumUsers, opts.NumArticles)

	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := seedUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}

	if err := seedArticles(db, r, users, opts.NumArticles); err != nil {
		return fmt.Errorf("seeding articles: %w", err)
	}

	log.Println("Database seeding complete")
	return nil
}

func seedUsers(db *gorm.DB, count int) ([]*models.User, error) {
	// One bcrypt hash shared by all seeded users; hashing per user makes
	// large seeds slow for no benefit.
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Email:    gofakeit.Email(),
			Password: string(hashed),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	log.Printf("Created %d users", len(users))
	return users, nil
}

// seedArticles creates articles with a handful of sentences each. Sentences
// are created one at a time in order so positions come out dense, 1..N.
func seedArticles(db *gorm.DB, r *rand.Rand, users []*models.User, count int) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to own articles")
	}

	for i := 0; i < count; i++ {
		owner := users[r.Intn(len(users))]

		title := gofakeit.Sentence(4)
		if len(title) > models.MaxTitleLength {
			title = title[:models.MaxTitleLength]
		}

		article := &models.Article{
			Title:   title,
			OwnerID: owner.ID,
		}
		if err := db.Create(article).Error; err != nil {
			return err
		}

		numSentences := r.Intn(8) + 1
		for pos := 1; pos <= numSentences; pos++ {
			sentence := &models.Sentence{
				ArticleID: article.ID,
				Position:  pos,
				Text:      gofakeit.Sentence(r.Intn(10) + 5),
				AuthorID:  owner.ID,
			}
			if err := db.Create(sentence).Error; err != nil {
				return err
			}
		}
	}

	log.Printf("Created %d articles", count)
	return nil
}

// clearData removes seedable rows. Order matters for foreign keys.
func clearData(db *gorm.DB) error {
	if err := db.Where("1 = 1").Delete(&models.Sentence{}).Error; err != nil {
		return err
	}
	if err := db.Where("1 = 1").Delete(&models.Article{}).Error; err != nil {
		return err
	}
	return db.Unscoped().Where("1 = 1").Delete(&models.User{}).Error
}

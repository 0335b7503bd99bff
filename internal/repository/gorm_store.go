package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"blog-api/internal/domain"
)

type userRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
	FirstName    string
	Country      string
	IsAdmin      bool `gorm:"not null;default:false"`
	Verified     bool `gorm:"not null;default:false"`
	CreatedAt    time.Time

	Posts    []postRecord    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Comments []commentRecord `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (userRecord) TableName() string { return "users" }

type postRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"not null"`
	AuthorID  string `gorm:"size:36;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Comments []commentRecord `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (postRecord) TableName() string { return "posts" }

type commentRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	Content   string `gorm:"not null"`
	PostID    string `gorm:"size:36;index;not null"`
	UserID    string `gorm:"size:36;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (commentRecord) TableName() string { return "comments" }

// GormStore implementa los repositorios sobre gorm. Se usa con SQLite
// (STORE_DRIVER=sqlite) para despliegues de un solo nodo y en tests.
type GormStore struct {
	db *gorm.DB
}

// OpenSQLite abre (o crea) la base SQLite en path y migra el esquema.
func OpenSQLite(path string) (*GormStore, error) {
	dsn := path + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database, %w", err)
	}
	return NewGormStore(db)
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&userRecord{}, &postRecord{}, &commentRecord{}); err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Users() UserRepository       { return gormUsers{s.db} }
func (s *GormStore) Posts() PostRepository       { return gormPosts{s.db} }
func (s *GormStore) Comments() CommentRepository { return gormComments{s.db} }

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormUsers struct{ db *gorm.DB }

func (r gormUsers) Create(ctx context.Context, user domain.User) (domain.User, error) {
	user = prepareUser(user)
	rec := userRecord{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Name:         user.Name,
		FirstName:    user.FirstName,
		Country:      user.Country,
		IsAdmin:      user.IsAdmin,
		Verified:     user.Verified,
		CreatedAt:    user.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.User{}, translateGormError(err)
	}
	return user, nil
}

func (r gormUsers) GetByID(ctx context.Context, id string) (domain.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return domain.User{}, translateGormError(err)
	}
	return rec.toDomain(), nil
}

func (r gormUsers) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&rec).Error; err != nil {
		return domain.User{}, translateGormError(err)
	}
	return rec.toDomain(), nil
}

func (r gormUsers) List(ctx context.Context) ([]domain.User, error) {
	var recs []userRecord
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&recs).Error; err != nil {
		return nil, translateGormError(err)
	}
	users := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, rec.toDomain())
	}
	return users, nil
}

func (r gormUsers) SetAdmin(ctx context.Context, id string, isAdmin bool) (domain.User, error) {
	res := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", id).Update("is_admin", isAdmin)
	if res.Error != nil {
		return domain.User{}, translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.User{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r gormUsers) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postIDs := tx.Model(&postRecord{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("user_id = ? OR post_id IN (?)", id, postIDs).Delete(&commentRecord{}).Error; err != nil {
			return translateGormError(err)
		}
		if err := tx.Where("author_id = ?", id).Delete(&postRecord{}).Error; err != nil {
			return translateGormError(err)
		}
		res := tx.Where("id = ?", id).Delete(&userRecord{})
		if res.Error != nil {
			return translateGormError(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (rec userRecord) toDomain() domain.User {
	return domain.User{
		ID:           rec.ID,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		Name:         rec.Name,
		FirstName:    rec.FirstName,
		Country:      rec.Country,
		IsAdmin:      rec.IsAdmin,
		Verified:     rec.Verified,
		CreatedAt:    rec.CreatedAt.UTC(),
	}
}

type gormPosts struct{ db *gorm.DB }

func (r gormPosts) Create(ctx context.Context, post domain.Post) (domain.Post, error) {
	post = preparePost(post)
	rec := postRecord{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		AuthorID:  post.AuthorID,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &userRecord{}, post.AuthorID); err != nil {
			return err
		}
		return translateGormError(tx.Create(&rec).Error)
	})
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (r gormPosts) GetByID(ctx context.Context, id string) (domain.Post, error) {
	var rec postRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return domain.Post{}, translateGormError(err)
	}
	return rec.toDomain(), nil
}

func (r gormPosts) List(ctx context.Context) ([]domain.Post, error) {
	var recs []postRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC, id").Find(&recs).Error; err != nil {
		return nil, translateGormError(err)
	}
	posts := make([]domain.Post, 0, len(recs))
	for _, rec := range recs {
		posts = append(posts, rec.toDomain())
	}
	return posts, nil
}

func (r gormPosts) Update(ctx context.Context, post domain.Post) (domain.Post, error) {
	res := r.db.WithContext(ctx).Model(&postRecord{}).Where("id = ?", post.ID).Updates(map[string]any{
		"title":      post.Title,
		"content":    post.Content,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return domain.Post{}, translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Post{}, ErrNotFound
	}
	return r.GetByID(ctx, post.ID)
}

// Delete borra los comentarios y el post en una transaccion; no depende de
// que SQLite tenga las claves foraneas activadas.
func (r gormPosts) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&commentRecord{}).Error; err != nil {
			return translateGormError(err)
		}
		res := tx.Where("id = ?", id).Delete(&postRecord{})
		if res.Error != nil {
			return translateGormError(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (rec postRecord) toDomain() domain.Post {
	return domain.Post{
		ID:        rec.ID,
		Title:     rec.Title,
		Content:   rec.Content,
		AuthorID:  rec.AuthorID,
		CreatedAt: rec.CreatedAt.UTC(),
		UpdatedAt: rec.UpdatedAt.UTC(),
	}
}

type gormComments struct{ db *gorm.DB }

func (r gormComments) Create(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	comment = prepareComment(comment)
	rec := commentRecord{
		ID:        comment.ID,
		Content:   comment.Content,
		PostID:    comment.PostID,
		UserID:    comment.UserID,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &postRecord{}, comment.PostID); err != nil {
			return err
		}
		if err := requireRow(tx, &userRecord{}, comment.UserID); err != nil {
			return err
		}
		return translateGormError(tx.Create(&rec).Error)
	})
	if err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

func (r gormComments) GetByID(ctx context.Context, id string) (domain.Comment, error) {
	var rec commentRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return domain.Comment{}, translateGormError(err)
	}
	return rec.toDomain(), nil
}

func (r gormComments) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	var recs []commentRecord
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at, id").Find(&recs).Error; err != nil {
		return nil, translateGormError(err)
	}
	comments := make([]domain.Comment, 0, len(recs))
	for _, rec := range recs {
		comments = append(comments, rec.toDomain())
	}
	return comments, nil
}

func (r gormComments) Update(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	res := r.db.WithContext(ctx).Model(&commentRecord{}).Where("id = ?", comment.ID).Updates(map[string]any{
		"content":    comment.Content,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return domain.Comment{}, translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Comment{}, ErrNotFound
	}
	return r.GetByID(ctx, comment.ID)
}

func (r gormComments) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&commentRecord{})
	if res.Error != nil {
		return translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// requireRow devuelve ErrNotFound si no existe la fila referenciada. Con las
// claves foraneas de SQLite desactivadas el insert no lo detectaria.
func requireRow(tx *gorm.DB, model any, id string) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return translateGormError(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (rec commentRecord) toDomain() domain.Comment {
	return domain.Comment{
		ID:        rec.ID,
		Content:   rec.Content,
		PostID:    rec.PostID,
		UserID:    rec.UserID,
		CreatedAt: rec.CreatedAt.UTC(),
		UpdatedAt: rec.UpdatedAt.UTC(),
	}
}

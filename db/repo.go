package db

import (
	"context"
	"errors"
	"strings"

	"Gin_postgres_redis_local_library/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// Users

func (r *Repo) TouchUserLogin(ctx context.Context, userID, ip, ua string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": gorm.Expr("NOW()"),
			"last_seen_at":  gorm.Expr("NOW()"),
			"login_count":   gorm.Expr("COALESCE(login_count, 0) + 1"),
			"last_login_ip": ip,
			"last_login_ua": ua,
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", gorm.Expr("NOW()")).Error
}

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	return translate(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Repo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", strings.ToLower(username)).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindOrCreateUser returns the member registered under username, creating it
// with newID when absent.
func (r *Repo) FindOrCreateUser(ctx context.Context, username, newID string) (*models.User, error) {
	username = strings.ToLower(username)
	var u models.User
	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u = models.User{ID: newID, Username: username, DisplayName: username}
		if err := r.DB.WithContext(ctx).Create(&u).Error; err != nil {
			return nil, translate(err)
		}
		return &u, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

type ListUsersResult struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

// ListUsers pages through members, optionally matching username/display name.
func (r *Repo) ListUsers(ctx context.Context, q string, page, size int) (ListUsersResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.User{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(username) LIKE ? OR LOWER(display_name) LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListUsersResult{}, err
	}

	var users []models.User
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error; err != nil {
		return ListUsersResult{}, err
	}
	return ListUsersResult{Users: users, Total: total}, nil
}

// DeleteUserByID removes the member and their passkeys. Copies they hold keep
// their status but lose the borrower reference.
func (r *Repo) DeleteUserByID(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Credential{}).Error; err != nil {
			return err
		}
		res := tx.Clauses(clause.Returning{}).Delete(&models.User{ID: id})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (r *Repo) SetUserPermissions(ctx context.Context, userID string, perms []string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("permissions", pq.StringArray(perms))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *Repo) SetUserAdmin(ctx context.Context, userID string, isAdmin bool) error {
	return r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_admin", isAdmin).Error
}

func (r *Repo) SetUserPassword(ctx context.Context, userID, hash string) error {
	return r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error
}

func (r *Repo) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("is_admin = TRUE").
		Count(&n).Error
	return n, err
}

// Credentials

func (r *Repo) AddCredential(ctx context.Context, c *models.Credential) error {
	return translate(r.DB.WithContext(ctx).Create(c).Error)
}

func (r *Repo) LoadUserCredentials(ctx context.Context, userID string) ([]models.Credential, error) {
	var cs []models.Credential
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

// MarkCredentialUsed stores the authenticator counter after a login.
func (r *Repo) MarkCredentialUsed(ctx context.Context, credID []byte, signCount uint32, cloneWarn bool) error {
	return r.DB.WithContext(ctx).Model(&models.Credential{}).
		Where("credential_id = ?", credID).
		Updates(map[string]any{
			"sign_count":    signCount,
			"clone_warning": cloneWarn,
			"last_used_at":  gorm.Expr("NOW()"),
		}).Error
}

func (r *Repo) FindUserByCredentialID(ctx context.Context, credID []byte) (*models.User, error) {
	var c models.Credential
	if err := r.DB.WithContext(ctx).Where("credential_id = ?", credID).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return r.FindUserByID(ctx, c.UserID)
}

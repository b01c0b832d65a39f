package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/marizoo/marizoo-server/internal/model"
    "github.com/marizoo/marizoo-server/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var (
    ErrUIDExists      = errors.New("uid already exists")
    ErrEmailExists    = errors.New("email already exists")
    ErrNicknameExists = errors.New("nickname already exists")
)

// Create inserts a user and returns its ID.  UID, email and nickname
// are each unique; the violated key is reported through the matching
// sentinel error.
func (r *UserRepo) Create(ctx context.Context, uid, email, nickname, phone, password, role string, cost int) (uint64, error) {
    uid = strings.TrimSpace(uid)
    email = strings.ToLower(strings.TrimSpace(email))
    nickname = strings.TrimSpace(nickname)
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (uid, email, nickname, phone_number, password_hash, role) VALUES (?,?,?,?,?,?)",
        uid, email, nickname, phone, hash, role)
    if err != nil {
        // MySQL 1062: duplicate entry; the message names the violated key
        msg := strings.ToLower(err.Error())
        if strings.Contains(msg, "1062") {
            switch {
            case strings.Contains(msg, "uid"):
                return 0, ErrUIDExists
            case strings.Contains(msg, "nickname"):
                return 0, ErrNicknameExists
            default:
                return 0, ErrEmailExists
            }
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

const userColumns = "id,uid,email,nickname,phone_number,password_hash,role,is_active,created_at,updated_at"

func (r *UserRepo) scanUser(row *sql.Row) (model.User, error) {
    var u model.User
    err := row.Scan(&u.ID, &u.UID, &u.Email, &u.Nickname, &u.PhoneNumber,
        &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
    return u, err
}

// GetByUID fetches a user by login identifier.
func (r *UserRepo) GetByUID(ctx context.Context, uid string) (model.User, error) {
    return r.scanUser(r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE uid=? LIMIT 1", strings.TrimSpace(uid)))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    return r.scanUser(r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    return r.scanUser(r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

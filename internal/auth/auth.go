package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/utils/collectionutils"
	"github.com/siahsang/yatube/internal/web"
	"golang.org/x/crypto/bcrypt"
)

const UserCtxKey web.ContextKey = "user_data"

// PasswordCost is the bcrypt cost used for new password hashes.
var PasswordCost = 12

var (
	NotAuthenticatesUser = xerrors.Message("Not authenticated user")
	ErrInvalidToken      = xerrors.Message("Invalid authentication token")
)

type Auth struct {
	secret             []byte
	tokenTTL           time.Duration
	authenticatedUsers *collectionutils.SafeMap[string, *User]
}

func New(secret string, tokenTTL time.Duration) *Auth {
	return &Auth{
		secret:             []byte(secret),
		tokenTTL:           tokenTTL,
		authenticatedUsers: collectionutils.New[string, *User](),
	}
}

func (user *User) SetPassword(plainTextPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), PasswordCost)

	if err != nil {
		return xerrors.New(err)
	}

	user.Password = hashedPassword
	return nil
}

func (user *User) IsPasswordMatch(plainTextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(user.Password, []byte(plainTextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, xerrors.New(err)
	}

	return true, nil
}

func (auth *Auth) GenerateToken(user *User) (string, error) {
	now := time.Now()
	claim := UserClaim{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(auth.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)
	signedString, err := token.SignedString(auth.secret)
	if err != nil {
		return "", xerrors.New(err)
	}
	return signedString, nil
}

func (auth *Auth) Authenticate(tokenString string) (*UserClaim, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &UserClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.New("unexpected signing method")
		}
		return auth.secret, nil
	})

	if err != nil {
		return nil, xerrors.New(fmt.Errorf("%w: %w", ErrInvalidToken, err))
	}

	if !parsedToken.Valid {
		return nil, xerrors.New(ErrInvalidToken)
	}

	claim, ok := parsedToken.Claims.(*UserClaim)
	if !ok || claim.Username == "" {
		return nil, xerrors.New(ErrInvalidToken)
	}
	return claim, nil
}

func (auth *Auth) GetAuthenticatedUser(r *http.Request) (*User, error) {
	user, ok := web.GetValueFromContext[*User](r, UserCtxKey)
	if !ok {
		return nil, NotAuthenticatesUser
	}

	return user, nil
}

func (auth *Auth) SetAuthenticatedUser(r *http.Request, user *User) *http.Request {
	return web.AddValueToContext(r, UserCtxKey, user)
}

// CacheAuthenticatedUser remembers a user resolved from a token. Usernames
// never change, so the entry stays valid for the life of the process.
func (auth *Auth) CacheAuthenticatedUser(user *User) {
	auth.authenticatedUsers.Store(user.Username, user)
}

func (auth *Auth) CachedUser(username string) (*User, bool) {
	return auth.authenticatedUsers.Get(username)
}

func (auth *Auth) IsUserAuthenticated(r *http.Request) bool {
	_, err := auth.GetAuthenticatedUser(r)
	return err == nil
}

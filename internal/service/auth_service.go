package service

import (
	"context"
	"strings"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/auth"
	"tiendapos/internal/config"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, quien auth.Identidad, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, quien auth.Identidad) ([]dto.UsuarioResponse, error)
}

type authService struct {
	repo  repository.UsuarioRepository
	areas repository.AreaRepository
	cfg   *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, areas repository.AreaRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, areas: areas, cfg: cfg}
}

// errCredenciales is returned for every login failure so the response does
// not reveal which usernames exist.
var errCredenciales = apierror.Validacion("credenciales invalidas")

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errCredenciales
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errCredenciales
	}
	return s.emitir(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.Validacion("refresh token invalido o expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.Validacion("claims invalidos")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, apierror.Validacion("token mal formado")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, apierror.Validacion("token mal formado")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, apierror.Validacion("usuario no encontrado o inactivo")
	}
	return s.emitir(user)
}

func (s *authService) CrearUsuario(ctx context.Context, quien auth.Identidad, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarUsuarios); err != nil {
		return nil, err
	}
	if !auth.RolValido(req.Rol) {
		return nil, apierror.Validacion("rol %q invalido", req.Rol)
	}
	if req.AreaID != nil {
		if _, err := s.areas.ObtenerPorID(ctx, *req.AreaID); err != nil {
			return nil, err
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, apierror.Inesperado(err)
	}
	user := &model.Usuario{
		Username:     strings.TrimSpace(req.Username),
		Nombre:       strings.TrimSpace(req.Nombre),
		PasswordHash: string(hash),
		Rol:          req.Rol,
		AreaID:       req.AreaID,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, quien auth.Identidad) ([]dto.UsuarioResponse, error) {
	if err := auth.Autorizar(quien, auth.OpGestionarUsuarios); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) emitir(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, apierror.Inesperado(err)
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, apierror.Inesperado(err)
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"rol":      user.Rol,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	if user.AreaID != nil {
		claims["area_id"] = user.AreaID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Nombre:   u.Nombre,
		Rol:      u.Rol,
		AreaID:   u.AreaID,
		Activo:   u.Activo,
	}
}

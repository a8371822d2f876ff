package httpapi

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sns/internal/adapters/httpapi/middleware"
	commentEntity "sns/internal/core/comment"
	postEntity "sns/internal/core/post"
	userEntity "sns/internal/core/user"
	"sns/internal/pagination"
	userPort "sns/internal/ports/user"

	authapp "sns/internal/core/auth/service"
)

// Inbound ports: what the controllers need from the application services.

type AuthUseCase interface {
	RegisterWithEmail(ctx context.Context, nickname, email, password string) (*authapp.LoginTokens, error)
	LoginWithEmail(ctx context.Context, email, password string) (*authapp.LoginTokens, error)
	RotateToken(token string, asRefresh bool) (string, error)
	ExtractTokenFromHeader(header string, isBearer bool) (string, error)
}

type UserUseCase interface {
	GetAllUsers(ctx context.Context) ([]*userEntity.User, error)
	GetFollowers(ctx context.Context, userID uint, includeNotConfirmed bool) ([]*userPort.FollowerDTO, error)
	FollowUser(ctx context.Context, followerID, followeeID uint) error
	ConfirmFollow(ctx context.Context, scope *gorm.DB, followerID, followeeID uint) error
	DeleteFollow(ctx context.Context, scope *gorm.DB, followerID, followeeID uint) error
	IncrementFollowerCount(ctx context.Context, scope *gorm.DB, userID uint) error
	DecrementFollowerCount(ctx context.Context, scope *gorm.DB, userID uint) error
	IncrementFolloweeCount(ctx context.Context, scope *gorm.DB, userID uint) error
	DecrementFolloweeCount(ctx context.Context, scope *gorm.DB, userID uint) error
}

type PostUseCase interface {
	PaginatePosts(ctx context.Context, req *pagination.Request) (interface{}, error)
	GetPostByID(ctx context.Context, scope *gorm.DB, id uint) (*postEntity.Post, error)
	CreatePost(ctx context.Context, scope *gorm.DB, authorID uint, title, content string) (*postEntity.Post, error)
	AttachImage(ctx context.Context, scope *gorm.DB, postID uint, order int, fileName string) (*postEntity.PostImage, error)
	UpdatePost(ctx context.Context, id uint, title, content string) (*postEntity.Post, error)
	DeletePost(ctx context.Context, id uint) error
	CheckPostExists(ctx context.Context, id uint) (bool, error)
	IsPostMine(ctx context.Context, userID, postID uint) (bool, error)
	IncrementCommentCount(ctx context.Context, scope *gorm.DB, postID uint) error
	DecrementCommentCount(ctx context.Context, scope *gorm.DB, postID uint) error
}

type CommentUseCase interface {
	PaginateComments(ctx context.Context, req *pagination.Request, postID uint) (interface{}, error)
	GetCommentByID(ctx context.Context, id uint) (*commentEntity.Comment, error)
	CreateComment(ctx context.Context, scope *gorm.DB, postID, authorID uint, text string) (*commentEntity.Comment, error)
	UpdateComment(ctx context.Context, id uint, text string) (*commentEntity.Comment, error)
	DeleteComment(ctx context.Context, scope *gorm.DB, id uint) error
	IsCommentMine(ctx context.Context, userID, commentID uint) (bool, error)
}

type ChatUseCase interface {
	PaginateChats(ctx context.Context, req *pagination.Request) (interface{}, error)
	PaginateMessages(ctx context.Context, req *pagination.Request, chatID uint) (interface{}, error)
}

// routeRoles is the explicit role table consulted by the roles guard.
var routeRoles = middleware.RouteRoles{
	"GET /users": userEntity.RoleAdmin,
}

// SetupRoutes wires controllers and the guard chain. Use cases are injected
// from the outside; chatGateway handles the websocket handshake and may be
// nil in tests.
func SetupRoutes(
	authUC AuthUseCase,
	userUC UserUseCase,
	postUC PostUseCase,
	commentUC CommentUseCase,
	chatUC ChatUseCase,
	guards *middleware.Guards,
	chatGateway gin.HandlerFunc,
) *gin.Engine {
	r := gin.Default()

	ac := NewAuthController(authUC)
	uc := NewUserController(userUC)
	pc := NewPostController(postUC)
	cc := NewCommentController(commentUC, postUC)
	chc := NewChatController(chatUC)
	cmc := NewCommonController()

	roles := middleware.RolesGuard(routeRoles)

	auth := r.Group("/auth")
	{
		auth.POST("/register/email", ac.PostRegisterEmail)
		auth.POST("/login/email", guards.BasicToken(), ac.PostLoginEmail)
		auth.POST("/token/access", guards.RefreshToken(), ac.PostTokenAccess)
		auth.POST("/token/refresh", guards.RefreshToken(), ac.PostTokenRefresh)
	}

	posts := r.Group("/posts")
	{
		posts.GET("", pc.GetPosts)
		posts.GET("/:id", pc.GetPost)
		posts.POST("", guards.AccessToken(), pc.PostPosts)
		posts.PATCH("/:id", guards.AccessToken(), middleware.OwnerOrAdmin("id", postUC.IsPostMine), pc.PatchPost)
		posts.DELETE("/:id", guards.AccessToken(), middleware.OwnerOrAdmin("id", postUC.IsPostMine), pc.DeletePost)

		posts.GET("/:id/comments", cc.GetComments)
		posts.GET("/:id/comments/:commentId", cc.GetComment)
		posts.POST("/:id/comments", guards.AccessToken(), cc.PostComment)
		posts.PATCH("/:id/comments/:commentId", guards.AccessToken(), middleware.OwnerOrAdmin("commentId", commentUC.IsCommentMine), cc.PatchComment)
		posts.DELETE("/:id/comments/:commentId", guards.AccessToken(), middleware.OwnerOrAdmin("commentId", commentUC.IsCommentMine), cc.DeleteComment)
	}

	users := r.Group("/users", guards.AccessToken(), roles)
	{
		users.GET("", uc.GetUsers)
		users.GET("/follow/me", uc.GetFollowMe)
		users.POST("/follow/:id", uc.PostFollow)
		users.PATCH("/follow/:id/confirm", uc.PatchFollowConfirm)
		users.DELETE("/follow/:id", uc.DeleteFollow)
	}

	r.POST("/common/image", guards.AccessToken(), cmc.PostImage)

	chats := r.Group("/chats", guards.AccessToken())
	{
		chats.GET("", chc.GetChats)
		chats.GET("/:id/messages", chc.GetMessages)
	}

	if chatGateway != nil {
		r.GET("/chats/ws", chatGateway)
	}

	return r
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Dastan2231/Social_Network/internal/config"
	"github.com/Dastan2231/Social_Network/internal/database"
	"github.com/Dastan2231/Social_Network/internal/handlers"
	"github.com/Dastan2231/Social_Network/internal/repository"
	"github.com/Dastan2231/Social_Network/internal/services"
	"github.com/Dastan2231/Social_Network/pkg/email"
	"github.com/Dastan2231/Social_Network/pkg/logger"
	"github.com/Dastan2231/Social_Network/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Index creation error: %v", err)
	}

	mailer := email.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPSender, cfg.SMTPPassword)

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	relationshipRepo := repository.NewRelationshipRepository(db)
	postRepo := repository.NewPostRepository(db)
	codeRepo := repository.NewCodeRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo, codeRepo, postRepo, mailer, cfg)
	relationshipService := services.NewRelationshipService(relationshipRepo, userRepo)
	postService := services.NewPostService(postRepo, userRepo)
	searchService := services.NewSearchService(userRepo)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService)
	friendHandler := handlers.NewFriendHandler(relationshipService)
	postHandler := handlers.NewPostHandler(postService)
	searchHandler := handlers.NewSearchHandler(searchService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")
	router.HandleFunc("/users/findUser", userHandler.FindUserHandler).Methods("POST")
	router.HandleFunc("/users/sendResetPasswordCode", userHandler.SendResetCodeHandler).Methods("POST")
	router.HandleFunc("/users/validateResetCode", userHandler.ValidateResetCodeHandler).Methods("POST")
	router.HandleFunc("/users/changePassword", userHandler.ChangePasswordHandler).Methods("POST")

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/activate", userHandler.ActivateAccountHandler).Methods("POST")
	protectedUserRoutes.HandleFunc("/sendVerification", userHandler.SendVerificationHandler).Methods("POST")
	protectedUserRoutes.HandleFunc("/getProfile/{username}", userHandler.GetProfileHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/updateProfilePicture", userHandler.UpdateProfilePictureHandler).Methods("PUT")
	protectedUserRoutes.HandleFunc("/updateCover", userHandler.UpdateCoverHandler).Methods("PUT")
	protectedUserRoutes.HandleFunc("/updateDetails", userHandler.UpdateDetailsHandler).Methods("PUT")
	protectedUserRoutes.HandleFunc("/search/{searchTerm}", searchHandler.SearchAccountsHandler).Methods("POST")
	protectedUserRoutes.HandleFunc("/addToSearchHistory", searchHandler.AddToSearchHistoryHandler).Methods("PUT")
	protectedUserRoutes.HandleFunc("/getSearchHistory", searchHandler.GetSearchHistoryHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/removeFromSearch", searchHandler.RemoveFromSearchHandler).Methods("PUT")
	protectedUserRoutes.HandleFunc("/getFriendsPageInfos", friendHandler.GetFriendsPageInfoHandler).Methods("GET")

	// Friend routes
	protectedFriendRoutes := router.PathPrefix("/friends").Subrouter()
	protectedFriendRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedFriendRoutes.HandleFunc("/addFriend/{id}", friendHandler.SendFriendRequestHandler).Methods("PUT")
	protectedFriendRoutes.HandleFunc("/cancelRequest/{id}", friendHandler.CancelRequestHandler).Methods("PUT")
	protectedFriendRoutes.HandleFunc("/follow/{id}", friendHandler.FollowHandler).Methods("PUT")
	protectedFriendRoutes.HandleFunc("/unfollow/{id}", friendHandler.UnfollowHandler).Methods("PUT")
	protectedFriendRoutes.HandleFunc("/acceptRequest/{id}", friendHandler.AcceptRequestHandler).Methods("PUT")
	protectedFriendRoutes.HandleFunc("/unfriend/{id}", friendHandler.UnfriendHandler).Methods("PUT")
	protectedFriendRoutes.HandleFunc("/deleteRequest/{id}", friendHandler.DeleteRequestHandler).Methods("PUT")

	// Post routes
	protectedPostRoutes := router.PathPrefix("/posts").Subrouter()
	protectedPostRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedPostRoutes.HandleFunc("/createPost", postHandler.CreatePostHandler).Methods("POST")
	protectedPostRoutes.HandleFunc("/getAllPosts", postHandler.GetFeedHandler).Methods("GET")
	protectedPostRoutes.HandleFunc("/comment", postHandler.CommentHandler).Methods("PUT")
	protectedPostRoutes.HandleFunc("/savePost/{id}", postHandler.SavePostHandler).Methods("PUT")
	protectedPostRoutes.HandleFunc("/deletePost/{id}", postHandler.DeletePostHandler).Methods("DELETE")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

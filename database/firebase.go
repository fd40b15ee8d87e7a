package database

import (
	"context"
	"fmt"

	"realtimesales/config"
	"realtimesales/domain"
	"realtimesales/models"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

var (
	firebaseApp     *firebase.App
	firebaseAuth    *auth.Client
	firestoreClient *firestore.Client
)

// InitFirebase initializes the Firebase Admin SDK. Without a credentials file
// application default credentials are used.
func InitFirebase(ctx context.Context, cfg *config.FirebaseConfig, withFirestore bool) error {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("failed to get Firebase Auth client: %w", err)
	}

	if withFirestore {
		client, err := app.Firestore(ctx)
		if err != nil {
			return fmt.Errorf("failed to get Firestore client: %w", err)
		}
		firestoreClient = client
	}

	firebaseApp = app
	firebaseAuth = authClient
	logrus.WithField("project", cfg.ProjectID).Info("Firebase initialized successfully")
	return nil
}

// CloseFirebase closes the Firestore client when one was opened
func CloseFirebase() error {
	if firestoreClient != nil {
		if err := firestoreClient.Close(); err != nil {
			return fmt.Errorf("failed to close Firestore client: %w", err)
		}
		logrus.Info("Firestore connection closed")
	}
	return nil
}

// GetFirebaseAuth returns the Firebase Auth client
func GetFirebaseAuth() *auth.Client {
	return firebaseAuth
}

// GetFirestore returns the Firestore client, nil unless requested at init
func GetFirestore() *firestore.Client {
	return firestoreClient
}

var (
	_ domain.UserRegistrar = FirebaseUsers{}
	_ AccountClient        = (*auth.Client)(nil)
	_ ProfileWriter        = FirestoreProfiles{}
)

// AccountClient is the part of the Firebase Auth client used for sign-up
type AccountClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
}

// ProfileWriter stores the profile document of a new account
type ProfileWriter interface {
	WriteProfile(ctx context.Context, uid string, profile models.UserDocument) error
}

// FirestoreProfiles keeps profiles in {Collection}/{uid}
type FirestoreProfiles struct {
	Client     *firestore.Client
	Collection string
}

func (p FirestoreProfiles) WriteProfile(ctx context.Context, uid string, profile models.UserDocument) error {
	_, err := p.Client.Collection(p.Collection).Doc(uid).Set(ctx, profile)
	return err
}

// FirebaseUsers creates Firebase Auth accounts and their profile documents.
// An account whose profile cannot be stored is deleted again.
type FirebaseUsers struct {
	Auth     AccountClient
	Profiles ProfileWriter
}

func (f FirebaseUsers) CreateUser(ctx context.Context, name, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(name)

	user, err := f.Auth.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", domain.ErrEmailAlreadyInUse
		}
		if auth.IsInvalidEmail(err) {
			return "", domain.ErrInvalidEmail
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	err = f.Profiles.WriteProfile(ctx, user.UID, models.UserDocument{
		Username: name,
		Email:    email,
	})
	if err != nil {
		if deleteErr := f.Auth.DeleteUser(ctx, user.UID); deleteErr != nil {
			logrus.WithError(deleteErr).WithField("uid", user.UID).Error("Firebase: failed to delete account without profile")
		}
		return "", fmt.Errorf("failed to store user profile: %w", err)
	}
	return user.UID, nil
}

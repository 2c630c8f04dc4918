package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID      string `dynamodbav:"userId" json:"userId"` // ✅ Partition Key
	Name        string `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Bio         string `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	PictureKey  string `dynamodbav:"pictureKey,omitempty" json:"pictureKey,omitempty"` // S3 object key
	CurrentMood string `dynamodbav:"currentMood,omitempty" json:"currentMood,omitempty"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt   string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// ProfileUpdate carries a partial profile update. A nil field means
// "leave unchanged".
type ProfileUpdate struct {
	Name       *string `json:"name,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	PictureKey *string `json:"pictureKey,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Bio == nil && u.PictureKey == nil
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"

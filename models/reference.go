package models

// Static lookup documents, seeded once and read-only afterwards.

type Subcounty struct {
	Name     string   `json:"name" bson:"name"`
	Parishes []string `json:"parishes" bson:"parishes"`
}

type District struct {
	Name        string      `json:"name" bson:"name"`
	Region      string      `json:"region" bson:"region"`
	Subcounties []Subcounty `json:"subcounties" bson:"subcounties"`
}

type CropType struct {
	Name        string `json:"name" bson:"name"`
	SubCategory string `json:"subCategory" bson:"subCategory"`
}

type LivestockBreed struct {
	AnimalType string `json:"animalType" bson:"animalType"`
	Name       string `json:"name" bson:"name"`
}

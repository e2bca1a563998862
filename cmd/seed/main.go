package main

import (
	"context"
	"log"

	"clarifyall/internal/config"
	"clarifyall/internal/db"
	"clarifyall/internal/model"
	"clarifyall/internal/repository"
)

func strPtr(s string) *string { return &s }

var categories = []model.Category{
	{Name: "Chatbots & Virtual Companions", Slug: "chatbots-virtual-companions", Description: strPtr("AI-powered conversational agents and virtual assistants")},
	{Name: "Image Generation & Editing", Slug: "image-generation-editing", Description: strPtr("AI tools for creating and editing images")},
	{Name: "Writing & Editing", Slug: "writing-editing", Description: strPtr("AI-powered writing assistants and content generators")},
	{Name: "Coding & Development", Slug: "coding-development", Description: strPtr("AI tools for software development and coding assistance")},
	{Name: "Office & Productivity", Slug: "office-productivity", Description: strPtr("AI tools to enhance workplace productivity")},
	{Name: "Video & Animation", Slug: "video-animation", Description: strPtr("AI-powered video creation and animation tools")},
	{Name: "Marketing & Advertising", Slug: "marketing-advertising", Description: strPtr("AI tools for marketing campaigns and advertising")},
	{Name: "Audio & Music", Slug: "audio-music", Description: strPtr("AI tools for audio processing and music generation")},
	{Name: "Data Analysis & Visualization", Slug: "data-analysis-visualization", Description: strPtr("AI-powered data analytics and visualization tools")},
	{Name: "Customer Support & CRM", Slug: "customer-support-crm", Description: strPtr("AI tools for customer relationship management")},
	{Name: "Education & Learning", Slug: "education-learning", Description: strPtr("AI-powered educational tools and learning platforms")},
	{Name: "Healthcare & Medical", Slug: "healthcare-medical", Description: strPtr("AI tools for healthcare and medical applications")},
	{Name: "Finance & Accounting", Slug: "finance-accounting", Description: strPtr("AI tools for financial analysis and accounting")},
	{Name: "Legal & Compliance", Slug: "legal-compliance", Description: strPtr("AI tools for legal research and compliance")},
	{Name: "Human Resources", Slug: "human-resources", Description: strPtr("AI tools for HR management and recruitment")},
	{Name: "Sales & Lead Generation", Slug: "sales-lead-generation", Description: strPtr("AI tools for sales automation and lead generation")},
	{Name: "Social Media Management", Slug: "social-media-management", Description: strPtr("AI tools for managing social media presence")},
	{Name: "SEO & Content Optimization", Slug: "seo-content-optimization", Description: strPtr("AI tools for search engine optimization")},
	{Name: "E-commerce & Retail", Slug: "ecommerce-retail", Description: strPtr("AI tools for online retail and e-commerce")},
	{Name: "Gaming & Entertainment", Slug: "gaming-entertainment", Description: strPtr("AI tools for gaming and entertainment")},
	{Name: "Research & Development", Slug: "research-development", Description: strPtr("AI tools for research and innovation")},
	{Name: "Translation & Localization", Slug: "translation-localization", Description: strPtr("AI-powered translation and localization tools")},
	{Name: "Cybersecurity", Slug: "cybersecurity", Description: strPtr("AI tools for security and threat detection")},
	{Name: "Real Estate & Property", Slug: "real-estate-property", Description: strPtr("AI tools for real estate management")},
	{Name: "Travel & Hospitality", Slug: "travel-hospitality", Description: strPtr("AI tools for travel and hospitality industry")},
}

func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.Category{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	ctx := context.Background()
	repo := repository.NewCategoryRepository(gormDB)

	existing, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("count categories: %v", err)
	}
	if existing > 0 {
		log.Printf("categories already seeded (%d rows), nothing to do", existing)
		return
	}

	for i := range categories {
		if err := repo.Create(ctx, &categories[i]); err != nil {
			log.Fatalf("seed category %q: %v", categories[i].Name, err)
		}
		log.Printf("seeded category %q", categories[i].Name)
	}
	log.Printf("seeded %d categories", len(categories))
}

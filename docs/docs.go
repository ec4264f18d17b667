// Package docs holds the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/games": {
            "get": {
                "tags": [
                    "games"
                ],
                "summary": "List games",
                "description": "Filter and sort the game catalog",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Text search over name, description and tags",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Category id",
                        "name": "category",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Comma-separated tags; a game matches if it has any",
                        "name": "tags",
                        "in": "query"
                    },
                    {
                        "type": "number",
                        "description": "Inclusive lower popularity bound",
                        "name": "min_popularity",
                        "in": "query"
                    },
                    {
                        "type": "number",
                        "description": "Inclusive upper popularity bound",
                        "name": "max_popularity",
                        "in": "query"
                    },
                    {
                        "type": "boolean",
                        "description": "Only featured games",
                        "name": "featured",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "popularity, name or dateAdded",
                        "name": "sort",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "asc or desc",
                        "name": "order",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/games/featured": {
            "get": {
                "tags": [
                    "games"
                ],
                "summary": "List featured games",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/games/{id}": {
            "get": {
                "tags": [
                    "games"
                ],
                "summary": "Get a game",
                "description": "Get a game by id or slug, with its category, rating and related games",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Game id or slug",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not found"
                    }
                }
            }
        },
        "/games/{id}/related": {
            "get": {
                "tags": [
                    "games"
                ],
                "summary": "List related games",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Game id or slug",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not found"
                    }
                }
            }
        },
        "/categories": {
            "get": {
                "tags": [
                    "categories"
                ],
                "summary": "List categories",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/categories/{slug}": {
            "get": {
                "tags": [
                    "categories"
                ],
                "summary": "Get a category",
                "description": "Get a category by slug or id with its games",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Category slug",
                        "name": "slug",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not found"
                    }
                }
            }
        },
        "/search/suggestions": {
            "get": {
                "tags": [
                    "search"
                ],
                "summary": "Search suggestions",
                "description": "Recent searches, popular searches, tags and game names matching a partial query",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Partial query",
                        "name": "q",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/seo": {
            "get": {
                "tags": [
                    "seo"
                ],
                "summary": "Page metadata",
                "description": "Title, meta description, keywords, canonical URL, social tags and structured data for a path",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Site path, e.g. /game/2048",
                        "name": "path",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/me": {
            "get": {
                "tags": [
                    "visitor"
                ],
                "summary": "Get visitor interactions",
                "description": "Favorites, recently played games and recent searches",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/me/favorites": {
            "get": {
                "tags": [
                    "visitor"
                ],
                "summary": "List favorites",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "post": {
                "tags": [
                    "visitor"
                ],
                "summary": "Add a favorite",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Game to add",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ports.AddGameRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not found"
                    }
                }
            },
            "delete": {
                "tags": [
                    "visitor"
                ],
                "summary": "Clear favorites",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/me/favorites/{id}": {
            "delete": {
                "tags": [
                    "visitor"
                ],
                "summary": "Remove a favorite",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Game id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/me/favorites/{id}/toggle": {
            "post": {
                "tags": [
                    "visitor"
                ],
                "summary": "Toggle a favorite",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Game id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not found"
                    }
                }
            }
        },
        "/me/recent": {
            "get": {
                "tags": [
                    "visitor"
                ],
                "summary": "List recently played games",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "post": {
                "tags": [
                    "visitor"
                ],
                "summary": "Record a play",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Game played",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ports.AddGameRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not found"
                    }
                }
            },
            "delete": {
                "tags": [
                    "visitor"
                ],
                "summary": "Clear recently played",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/me/recent/{id}": {
            "delete": {
                "tags": [
                    "visitor"
                ],
                "summary": "Remove a game from the recently played list",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Game id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/me/searches": {
            "post": {
                "tags": [
                    "visitor"
                ],
                "summary": "Record a search",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Search term",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ports.RecordSearchRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "delete": {
                "tags": [
                    "visitor"
                ],
                "summary": "Clear recent searches",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/me/preferences": {
            "get": {
                "tags": [
                    "visitor"
                ],
                "summary": "Get preferences",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "patch": {
                "tags": [
                    "visitor"
                ],
                "summary": "Update preferences",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Fields to change",
                        "name": "patch",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/entities.PreferencesPatch"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid preferences"
                    }
                }
            },
            "delete": {
                "tags": [
                    "visitor"
                ],
                "summary": "Reset preferences",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/admin/catalog/reload": {
            "post": {
                "tags": [
                    "admin"
                ],
                "summary": "Reload the catalog",
                "description": "Re-read the catalog file and swap it in. The current catalog stays on failure.",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BasicAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "422": {
                        "description": "Invalid catalog"
                    }
                }
            }
        }
    },
    "definitions": {
        "ports.AddGameRequest": {
            "type": "object",
            "required": [
                "gameId"
            ],
            "properties": {
                "gameId": {
                    "type": "string",
                    "maxLength": 200
                }
            }
        },
        "ports.RecordSearchRequest": {
            "type": "object",
            "required": [
                "query"
            ],
            "properties": {
                "query": {
                    "type": "string",
                    "maxLength": 200
                }
            }
        },
        "entities.PreferencesPatch": {
            "type": "object",
            "properties": {
                "gridColumns": {
                    "type": "integer",
                    "minimum": 1,
                    "maximum": 6
                },
                "showDescriptions": {
                    "type": "boolean"
                },
                "showCategories": {
                    "type": "boolean"
                },
                "defaultSort": {
                    "type": "string",
                    "enum": [
                        "popularity",
                        "name",
                        "dateAdded"
                    ]
                },
                "theme": {
                    "type": "string",
                    "enum": [
                        "light",
                        "dark"
                    ]
                }
            }
        }
    },
    "securityDefinitions": {
        "BasicAuth": {
            "type": "basic"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "GameHub API",
	Description:      "Game catalog, search, visitor favorites and SEO metadata",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

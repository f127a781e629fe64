package validation

const checkoutSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["customerId", "items", "shippingAddress", "paymentMethod"],
  "properties": {
    "customerId": { "type": "string", "minLength": 1 },
    "items": {
      "type": "array",
      "minItems": 1,
      "maxItems": 100,
      "items": {
        "type": "object",
        "required": ["productId", "unitPrice", "quantity"],
        "properties": {
          "productId": { "type": "string", "minLength": 1 },
          "productName": { "type": "string" },
          "sku": { "type": "string" },
          "color": { "type": "string", "maxLength": 64 },
          "size": { "type": "string", "enum": ["XS", "S", "M", "L", "XL", "XXL"] },
          "unitPrice": { "type": "number", "exclusiveMinimum": 0, "multipleOf": 0.01 },
          "quantity": { "type": "integer", "minimum": 1, "maximum": 10000 },
          "discountPercentage": { "type": "number", "minimum": 0, "maximum": 100 }
        },
        "additionalProperties": false
      }
    },
    "shippingAddress": {
      "type": "object",
      "required": ["fullName", "addressLine1", "city", "state", "postalCode", "country"],
      "properties": {
        "fullName": { "type": "string", "minLength": 1 },
        "addressLine1": { "type": "string", "minLength": 1 },
        "addressLine2": { "type": "string" },
        "city": { "type": "string", "minLength": 1 },
        "state": { "type": "string", "minLength": 1 },
        "postalCode": { "type": "string", "minLength": 1 },
        "country": { "type": "string", "minLength": 1 }
      },
      "additionalProperties": false
    },
    "paymentMethod": { "type": "string", "enum": ["cod", "card", "wallet", "upi"] },
    "totalAmount": { "type": "number", "exclusiveMinimum": 0 }
  },
  "additionalProperties": false
}`

const statusSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["orderStatus"],
  "properties": {
    "orderStatus": { "type": "string", "enum": ["pending", "processing", "shipped", "delivered", "cancelled"] }
  },
  "additionalProperties": false
}`
